package gogen

import (
	"fmt"
	"strings"

	"github.com/jptrs93/cleanwire/internal/generate"
	"github.com/jptrs93/cleanwire/internal/ir"
	"github.com/jptrs93/cleanwire/wire"
)

// validate checks the declarations of files for problems that would make the
// generated code wrong. Any error aborts generation.
func validate(set *ir.Set, files []*ir.File) error {
	for _, f := range files {
		var err error
		f.WalkMessages(func(m *ir.Message) {
			if err == nil {
				err = validateMessage(set, m)
			}
		})
		if err != nil {
			return fmt.Errorf("%s: %w", f.Path, err)
		}
	}
	return nil
}

func validateMessage(set *ir.Set, m *ir.Message) error {
	seen := make(map[int32]string)
	for _, f := range m.Fields {
		where := strings.TrimPrefix(m.FullName, ".") + "." + f.Name
		if prev, ok := seen[f.Number]; ok {
			return fmt.Errorf("%w: %s and %s both use number %d", generate.ErrDuplicateFieldTag, prev, where, f.Number)
		}
		seen[f.Number] = where
		if err := validateField(set, f); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		if entry := f.MapEntry(set); entry != nil {
			if err := validateMapEntry(entry); err != nil {
				return fmt.Errorf("%s: %w", where, err)
			}
		}
	}
	return nil
}

func validateField(set *ir.Set, f *ir.Field) error {
	num := wire.Number(f.Number)
	switch {
	case num < wire.MinValidNumber || num > wire.MaxValidNumber:
		return fmt.Errorf("%w: field number %d is out of range", generate.ErrMalformedOption, f.Number)
	case num >= wire.FirstReservedNumber && num <= wire.LastReservedNumber:
		return fmt.Errorf("%w: field number %d is reserved", generate.ErrMalformedOption, f.Number)
	}

	switch f.Kind {
	case ir.KindMessage, ir.KindGroup, ir.KindEnum:
		if f.TypeName == "" {
			return fmt.Errorf("%w: %v field has no type name", generate.ErrUnresolvedType, f.Kind)
		}
		if d, ok := set.Lookup(f.TypeName); ok {
			_, isEnum := d.(*ir.Enum)
			if isEnum != (f.Kind == ir.KindEnum) {
				return fmt.Errorf("%w: %s is not a %v", generate.ErrUnresolvedType, f.TypeName, f.Kind)
			}
		}
	default:
		if f.TypeName != "" {
			return fmt.Errorf("%w: %v field refers to %s", generate.ErrUnresolvedType, f.Kind, f.TypeName)
		}
	}

	if f.PackedOption && (!f.IsRepeated() || !f.Kind.IsScalar()) {
		return fmt.Errorf("%w: packed applies only to repeated scalar fields", generate.ErrMalformedOption)
	}
	if f.BoxedOption && !isMessage(f) {
		return fmt.Errorf("%w: (cleanwire.boxed) applies only to message fields", generate.ErrMalformedOption)
	}
	if f.HasDefault {
		if f.IsRepeated() || isMessage(f) {
			return fmt.Errorf("%w: default values apply only to singular scalar fields", generate.ErrMalformedOption)
		}
		if f.Kind == ir.KindEnum {
			if e := set.Enum(f.TypeName); e != nil && enumValueByName(e, f.Default) == nil {
				return fmt.Errorf("%w: default %q is not a value of %s", generate.ErrMalformedOption, f.Default, e.FullName)
			}
		} else if _, _, err := defaultLiteral(f.Kind, f.Default); err != nil {
			return err
		}
	}
	return nil
}

func validateMapEntry(entry *ir.Message) error {
	key, val := entry.Field(1), entry.Field(2)
	if key == nil || val == nil {
		return fmt.Errorf("%w: map entry %s needs fields 1 and 2", generate.ErrMalformedOption, entry.FullName)
	}
	switch key.Kind {
	case ir.KindFloat, ir.KindDouble, ir.KindBytes, ir.KindMessage, ir.KindGroup, ir.KindEnum:
		return fmt.Errorf("%w: %v is not a valid map key type", generate.ErrMalformedOption, key.Kind)
	}
	if val.Kind == ir.KindGroup || val.IsRepeated() {
		return fmt.Errorf("%w: invalid map value in %s", generate.ErrMalformedOption, entry.FullName)
	}
	return nil
}
