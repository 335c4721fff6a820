package dateutil

// MedicareEligibilityAge is the age at which Medicare, and with it IRMAA, begins.
const MedicareEligibilityAge = 65

// GetRMDAge returns the age when RMDs start for a given birth year (SECURE 2.0 Act).
func GetRMDAge(birthYear int) int {
	switch {
	case birthYear <= 1950:
		return 72
	case birthYear >= 1951 && birthYear <= 1959:
		return 73
	default: // 1960 and later
		return 75
	}
}

// IsMedicareEligible checks if a person is eligible for Medicare (age 65+).
func IsMedicareEligible(age int) bool {
	return age >= MedicareEligibilityAge
}
