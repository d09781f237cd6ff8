package oastypes

// Secret wraps an OAS `format: password` value so it never appears in logs,
// error messages, or %v/%+v formatting by accident. The underlying value is
// still available via Reveal for the one place that actually needs it (the
// outgoing request/response body).
type Secret struct {
	value string
}

// NewSecret wraps v.
func NewSecret(v string) Secret {
	return Secret{value: v}
}

// Reveal returns the underlying value.
func (s Secret) Reveal() string {
	return s.value
}

// String always returns a fixed redaction marker, including when a Secret
// is formatted with %v, %s, or printed via a logger.
func (s Secret) String() string {
	return "[REDACTED]"
}

// MarshalJSON serializes the underlying value, since a Secret crossing the
// wire (a request body field) must carry its real value; only in-process
// formatting/logging is redacted.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.value + `"`), nil
}

// UnmarshalJSON reads the underlying value from a JSON string.
func (s *Secret) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	s.value = str
	return nil
}
