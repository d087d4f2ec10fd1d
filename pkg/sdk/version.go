package sdk

// SupportedSchemaMajor is the major schema version this SDK speaks. The server's
// visionqa://schema resource must report the same major version.
const SupportedSchemaMajor = "1"
