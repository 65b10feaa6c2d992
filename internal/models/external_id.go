package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// ExternalID is an identifier owned by another system (a pose in the catalog,
// an account at the identity provider). It is opaque here: JSON input may be
// a string or an integral number, output is always a string. Numbers are
// stored in plain decimal form; strings are only trimmed.
type ExternalID string

// String returns the identifier with surrounding whitespace removed.
func (id ExternalID) String() string {
	return strings.TrimSpace(string(id))
}

// IsZero reports whether the identifier is empty after trimming.
func (id ExternalID) IsZero() bool {
	return id.String() == ""
}

// UnmarshalJSON accepts a JSON string, a JSON number or null.
func (id *ExternalID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ExternalID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("identifier must be a string or a number: %w", err)
	}
	canonical, err := integerText(n.String())
	if err != nil {
		return err
	}
	*id = ExternalID(canonical)
	return nil
}

// maxExponent bounds the exponent accepted in a numeric identifier.
const maxExponent = 100

// integerText returns the decimal form of an integral JSON number, so 7, 7.0
// and 7e0 name the same identifier. Fractional numbers are rejected.
func integerText(lit string) (string, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return "0", nil
		}
		return lit, nil
	}
	if i := strings.IndexAny(lit, "eE"); i >= 0 {
		exp, err := strconv.Atoi(strings.TrimPrefix(lit[i+1:], "+"))
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return "", fmt.Errorf("identifier %s is out of range", lit)
		}
	}
	r, ok := new(big.Rat).SetString(lit)
	if !ok {
		return "", fmt.Errorf("identifier %s is not a number", lit)
	}
	if !r.IsInt() {
		return "", fmt.Errorf("identifier %s must be an integer", lit)
	}
	return r.Num().String(), nil
}

// MarshalJSON always emits a JSON string.
func (id ExternalID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}
