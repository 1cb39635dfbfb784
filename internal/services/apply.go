package services

// Partial-update helpers: copy the value only when the client sent the
// field. Pointer-typed DTO fields distinguish "absent" from "zero".

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func applyInt64(dst *int64, src *int64) {
	if src != nil {
		*dst = *src
	}
}
