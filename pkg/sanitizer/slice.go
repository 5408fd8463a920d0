package sanitizer

// NormalizeStringSlice trims and collapses whitespace in every element and
// drops entries that normalize to the empty string.
func NormalizeStringSlice(values []string) []string {
	if values == nil {
		return nil
	}

	result := make([]string, 0, len(values))
	for _, v := range values {
		normalized := TrimAndNormalize(v)
		if normalized != "" {
			result = append(result, normalized)
		}
	}
	return result
}
