package validator

// Violation codes. Messages for each code come from the i18n package.
const (
	CodeInvalidType         = "invalid_type"
	CodeRequired            = "required"
	CodeUnknownKey          = "unknown_key"
	CodeTooSmall            = "too_small"
	CodeTooBig              = "too_big"
	CodeTooShort            = "too_short"
	CodeTooLong             = "too_long"
	CodePattern             = "pattern"
	CodeInvalidEnum         = "invalid_enum"
	CodeInvalidConst        = "invalid_const"
	CodeInvalidFormat       = "invalid_format"
	CodeNotMultipleOf       = "not_multiple_of"
	CodeNotUnique           = "not_unique"
	CodeContainsTooFew      = "contains_too_few"
	CodeContainsTooMany     = "contains_too_many"
	CodeAnyOfNone           = "any_of_none"
	CodeOneOfNone           = "one_of_none"
	CodeOneOfMultiple       = "one_of_multiple"
	CodeNotAllowed          = "not_allowed"
	CodeFalseSchema         = "false_schema"
	CodeDependency          = "dependency"
	CodeInvalidPropertyName = "invalid_property_name"
)
