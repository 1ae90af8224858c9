package pii

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_Email(t *testing.T) {
	entities := Detect("Contact jane.doe@example.com for details.")

	require.Len(t, entities, 1)
	assert.Equal(t, "EMAIL_ADDRESS", entities[0].EntityType)
	assert.Equal(t, "jane.doe@example.com", entities[0].Text)
	assert.Equal(t, entities[0].Text, "Contact jane.doe@example.com for details."[entities[0].Start:entities[0].End])
}

func TestDetect_Phone(t *testing.T) {
	entities := Detect("Call 555-123-4567 anytime.")

	require.NotEmpty(t, entities)
	assert.Equal(t, "PHONE_NUMBER", entities[0].EntityType)
}

func TestDetect_MultipleOrderedByPosition(t *testing.T) {
	entities := Detect("jane@example.com then https://example.com/profile")

	require.Len(t, entities, 2)
	assert.Equal(t, "EMAIL_ADDRESS", entities[0].EntityType)
	assert.Equal(t, "URL", entities[1].EntityType)
	assert.Less(t, entities[0].Start, entities[1].Start)
}

func TestDetect_Clean(t *testing.T) {
	assert.Empty(t, Detect("Built distributed systems with no contact details."))
}

func TestRedact(t *testing.T) {
	result := Redact("Email jane@example.com or call 555-123-4567.")

	assert.Equal(t, 2, result.ItemsRedacted)
	assert.Contains(t, result.RedactedText, "[EMAIL]")
	assert.Contains(t, result.RedactedText, "[PHONE]")
	assert.NotContains(t, result.RedactedText, "jane@example.com")
	assert.ElementsMatch(t, []string{"EMAIL_ADDRESS", "PHONE_NUMBER"}, result.PIITypes)
}

func TestRedact_NoPII(t *testing.T) {
	result := Redact("Nothing sensitive here.")

	assert.Equal(t, "Nothing sensitive here.", result.RedactedText)
	assert.Zero(t, result.ItemsRedacted)
	assert.Empty(t, result.PIITypes)
}

func TestRedact_PreservesSurroundingText(t *testing.T) {
	result := Redact("Before jane@example.com after.")

	assert.Equal(t, "Before [EMAIL] after.", result.RedactedText)
}
