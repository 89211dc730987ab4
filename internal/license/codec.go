package license

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/brimblehq/licenses/internal/types"
)

// DateLayout is the fixed-width expiry format. Fixed width is what makes a
// plain string comparison of two dates correct.
const DateLayout = "20060102"

const maxPayloadSize = 64 << 10

var ErrDecode = errors.New("malformed license key")

var validate = validator.New()

type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrDecode, e.Reason, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrDecode, e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

type payload struct {
	Name      *string `json:"name"`
	Company   *string `json:"company"`
	Email     *string `json:"email"`
	Expires   *string `json:"expires"`
	Product   *string `json:"product"`
	Reference *string `json:"reference"`
}

func (p payload) record() (types.LicenseRecord, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"name", p.Name},
		{"company", p.Company},
		{"email", p.Email},
		{"expires", p.Expires},
		{"product", p.Product},
		{"reference", p.Reference},
	}

	for _, f := range fields {
		if f.value == nil {
			return types.LicenseRecord{}, fmt.Errorf("missing field %q", f.name)
		}
	}

	return types.LicenseRecord{
		Name:      *p.Name,
		Company:   *p.Company,
		Email:     *p.Email,
		Expires:   *p.Expires,
		Product:   *p.Product,
		Reference: *p.Reference,
	}, nil
}

// Decode turns a key into its record. Whitespace inside the key is ignored,
// so a key that was wrapped over several lines decodes like the original.
func Decode(key types.LicenseKey) (types.LicenseRecord, error) {
	text := compact(string(key))
	if text == "" {
		return types.LicenseRecord{}, &DecodeError{Reason: "empty key"}
	}

	compressed, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return types.LicenseRecord{}, &DecodeError{Reason: "invalid text encoding", Err: err}
	}

	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return types.LicenseRecord{}, &DecodeError{Reason: "invalid compressed data", Err: err}
	}
	defer zr.Close()

	data, err := io.ReadAll(io.LimitReader(zr, maxPayloadSize+1))
	if err != nil {
		return types.LicenseRecord{}, &DecodeError{Reason: "invalid compressed data", Err: err}
	}
	if len(data) > maxPayloadSize {
		return types.LicenseRecord{}, &DecodeError{Reason: "payload too large"}
	}

	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return types.LicenseRecord{}, &DecodeError{Reason: "invalid payload", Err: err}
	}

	record, err := p.record()
	if err != nil {
		return types.LicenseRecord{}, &DecodeError{Reason: "incomplete payload", Err: err}
	}

	if err := validate.Struct(record); err != nil {
		return types.LicenseRecord{}, &DecodeError{Reason: "expiry is not a YYYYMMDD date", Err: err}
	}

	record.Key = key
	return record, nil
}

// Encode is the inverse of Decode. The Key field of record is ignored.
func Encode(record types.LicenseRecord) (types.LicenseKey, error) {
	if err := validate.Struct(record); err != nil {
		return "", fmt.Errorf("invalid license record: %w", err)
	}

	// json.Marshal would swap bad bytes for U+FFFD and the key would not
	// decode back to record
	for _, f := range []struct{ name, value string }{
		{"name", record.Name},
		{"company", record.Company},
		{"email", record.Email},
		{"product", record.Product},
		{"reference", record.Reference},
	} {
		if !utf8.ValidString(f.value) {
			return "", fmt.Errorf("invalid license record: %s is not valid UTF-8", f.name)
		}
	}

	data, err := json.Marshal(payload{
		Name:      &record.Name,
		Company:   &record.Company,
		Email:     &record.Email,
		Expires:   &record.Expires,
		Product:   &record.Product,
		Reference: &record.Reference,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal license record: %w", err)
	}

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return "", fmt.Errorf("failed to create compressor: %w", err)
	}

	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("failed to compress license record: %w", err)
	}

	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to compress license record: %w", err)
	}

	return types.LicenseKey(base64.StdEncoding.EncodeToString(buf.Bytes())), nil
}

// Wrap splits a key into lines of at most width characters. A width of zero
// or less returns the key unchanged.
func Wrap(key types.LicenseKey, width int) string {
	text := string(key)
	if width <= 0 || len(text) <= width {
		return text
	}

	var lines []string
	for len(text) > width {
		lines = append(lines, text[:width])
		text = text[width:]
	}
	if text != "" {
		lines = append(lines, text)
	}

	return strings.Join(lines, "\n")
}

func compact(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
