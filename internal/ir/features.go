package ir

import "google.golang.org/protobuf/types/descriptorpb"

// features is the resolved subset of editions features that changes the
// generated code.
type features struct {
	presence descriptorpb.FeatureSet_FieldPresence
	repeated descriptorpb.FeatureSet_RepeatedFieldEncoding
	message  descriptorpb.FeatureSet_MessageEncoding
	enum     descriptorpb.FeatureSet_EnumType
}

// editionDefaults are the edition 2023 defaults.
var editionDefaults = features{
	presence: descriptorpb.FeatureSet_EXPLICIT,
	repeated: descriptorpb.FeatureSet_PACKED,
	message:  descriptorpb.FeatureSet_LENGTH_PREFIXED,
	enum:     descriptorpb.FeatureSet_OPEN,
}

// merge overrides f with the features set explicitly in fs.
func (f features) merge(fs *descriptorpb.FeatureSet) features {
	if fs == nil {
		return f
	}
	if fs.FieldPresence != nil {
		f.presence = fs.GetFieldPresence()
	}
	if fs.RepeatedFieldEncoding != nil {
		f.repeated = fs.GetRepeatedFieldEncoding()
	}
	if fs.MessageEncoding != nil {
		f.message = fs.GetMessageEncoding()
	}
	if fs.EnumType != nil {
		f.enum = fs.GetEnumType()
	}
	return f
}
