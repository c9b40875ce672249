package domain

// Gender values accepted on the user profile
const (
	GenderCisMale           = "cisMale"
	GenderCisFemale         = "cisFemale"
	GenderTransgenderMale   = "transgenderMale"
	GenderTransgenderFemale = "transgenderFemale"
	GenderNonBinary         = "nonBinary"
	GenderNone              = "none"
	GenderUnspecified       = "unspecified"
	GenderOther             = "other"
	GenderUnknown           = "unknown"
	GenderDeclinedToAnswer  = "declinedToAnswer"
)

var genders = map[string]struct{}{
	GenderCisMale:           {},
	GenderCisFemale:         {},
	GenderTransgenderMale:   {},
	GenderTransgenderFemale: {},
	GenderNonBinary:         {},
	GenderNone:              {},
	GenderUnspecified:       {},
	GenderOther:             {},
	GenderUnknown:           {},
	GenderDeclinedToAnswer:  {},
}

// IsValidGender reports whether the value is one of the accepted genders
func IsValidGender(value string) bool {
	_, ok := genders[value]
	return ok
}
