// otp/phone_test.go
package otp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	fayhaa_errors "github.com/fayhaa-municipality/complaints-api/errors"
)

func TestFormatLebanesePhone(t *testing.T) {
	t.Run("FormatsAllValidPrefixes", func(t *testing.T) {
		cases := map[string]string{
			"03123456": "+961 03 123 456",
			"70499810": "+961 70 499 810",
			"71234567": "+961 71 234 567",
			"76111222": "+961 76 111 222",
			"78000111": "+961 78 000 111",
			"79555666": "+961 79 555 666",
			"81987654": "+961 81 987 654",
		}
		for input, expected := range cases {
			formatted, err := FormatLebanesePhone(input)
			assert.NoError(t, err, "input %s", input)
			assert.Equal(t, expected, formatted)
		}
	})

	t.Run("AcceptsAlreadyFormattedInput", func(t *testing.T) {
		formatted, err := FormatLebanesePhone("70 499 810")
		assert.NoError(t, err)
		assert.Equal(t, "+961 70 499 810", formatted)
	})

	t.Run("RoundTripsOwnOutput", func(t *testing.T) {
		for _, local := range []string{"03123456", "70499810", "81987654"} {
			formatted, err := FormatLebanesePhone(local)
			assert.NoError(t, err)

			again, err := FormatLebanesePhone(formatted)
			assert.NoError(t, err, "stored format %q must be accepted back", formatted)
			assert.Equal(t, formatted, again)
		}
	})

	t.Run("AcceptsE164Input", func(t *testing.T) {
		formatted, err := FormatLebanesePhone("+96170499810")
		assert.NoError(t, err)
		assert.Equal(t, "+961 70 499 810", formatted)

		// The 03 prefix loses its zero in E.164 and must still come back.
		formatted, err = FormatLebanesePhone("+9613123456")
		assert.NoError(t, err)
		assert.Equal(t, "+961 03 123 456", formatted)
	})

	t.Run("RejectsUnknownPrefix", func(t *testing.T) {
		_, err := FormatLebanesePhone("02123456")
		assert.ErrorIs(t, err, fayhaa_errors.ErrInvalidPhone)
	})

	t.Run("RejectsWrongLength", func(t *testing.T) {
		_, err := FormatLebanesePhone("7049981")
		assert.ErrorIs(t, err, fayhaa_errors.ErrInvalidPhone)

		_, err = FormatLebanesePhone("704998100")
		assert.ErrorIs(t, err, fayhaa_errors.ErrInvalidPhone)
	})
}

func TestE164LebanesePhone(t *testing.T) {
	t.Run("DropsLeadingZero", func(t *testing.T) {
		e164, err := E164LebanesePhone("03123456")
		assert.NoError(t, err)
		assert.Equal(t, "+9613123456", e164)
	})

	t.Run("KeepsNonZeroPrefix", func(t *testing.T) {
		e164, err := E164LebanesePhone("70499810")
		assert.NoError(t, err)
		assert.Equal(t, "+96170499810", e164)
	})

	t.Run("RejectsUnknownPrefix", func(t *testing.T) {
		_, err := E164LebanesePhone("99123456")
		assert.ErrorIs(t, err, fayhaa_errors.ErrInvalidPhone)
	})

	t.Run("AcceptsDisplayFormatInput", func(t *testing.T) {
		e164, err := E164LebanesePhone("+961 70 499 810")
		assert.NoError(t, err)
		assert.Equal(t, "+96170499810", e164)
	})
}
