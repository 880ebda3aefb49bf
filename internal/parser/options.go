package parser

// OptionsProtoPath is the import path of the cleanwire options. It is served
// from memory, so no file needs to exist on the import path.
const OptionsProtoPath = "cleanwire/options.proto"

// The extension number must match ir.BoxedOptionNumber.
const optionsProtoSource = `
syntax = "proto2";

package cleanwire;

import "google/protobuf/descriptor.proto";

extend google.protobuf.FieldOptions {
  // Holds a required message field by pointer instead of by value.
  optional bool boxed = 50020;
}
`
