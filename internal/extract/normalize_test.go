package extract

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entryObject = `{"date":"2025-05-31","description":"Accrue rent","amount":1500,"account":"15010-110-02","type":"debit"}`

func TestNormalize_SingleObjectIsWrapped(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unfenced", entryObject},
		{"json fence", "```json\n" + entryObject + "\n```"},
		{"upper case tag", "```JSON\n" + entryObject + "\n```"},
		{"bare fence", "```\n" + entryObject + "\n```"},
		{"surrounding whitespace", "\n\n  ```json " + entryObject + "```  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.JSONEq(t, entryObject, string(got[0]))
		})
	}
}

func TestNormalize_ArrayKeepsOrder(t *testing.T) {
	raw := "```json\n[\n" +
		`{"account":"3","type":"credit","amount":10},` + "\n" +
		`{"account":"1","type":"debit","amount":10},` + "\n" +
		`{"account":"2","type":"debit","amount":0.5}` +
		"\n]\n```"

	got, err := Normalize(raw)
	require.NoError(t, err)
	require.Len(t, got, 3)

	entries, err := got.Entries()
	require.NoError(t, err)
	assert.Equal(t, "3", entries[0].Account)
	assert.Equal(t, "1", entries[1].Account)
	assert.Equal(t, "2", entries[2].Account)
	assert.Equal(t, json.Number("0.5"), entries[2].Amount)
}

func TestNormalize_EmptyArray(t *testing.T) {
	got, err := Normalize("[]")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestNormalize_FormatError(t *testing.T) {
	tests := []string{
		"",
		"Sorry, I could not find any entries.",
		"```json\n{\"date\": \"2025-05-31\",}\n```",
		"[{\"account\": \"1\"}",
	}

	for _, raw := range tests {
		_, err := Normalize(raw)
		require.Error(t, err, "raw %q", raw)
		assert.ErrorIs(t, err, ErrFormat)

		var fe *FormatError
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, raw, fe.Raw, "raw text must be recoverable")
		assert.Contains(t, fe.Error(), "failed to parse JSON")
	}
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```Json{\"a\":1}```"))
	assert.Equal(t, `{"a":1}`, StripFences(`{"a":1}`))
	assert.Equal(t, "[1]", StripFences("  [1]\n```"))
}

func TestResult_Sentinel(t *testing.T) {
	got, err := Normalize(`{"date":"2025-05-31","message":"NO_JOURNAL_ENTRY_IN_BODY"}`)
	require.NoError(t, err)

	s, ok := got.Sentinel()
	require.True(t, ok)
	require.NotNil(t, s.Date)
	assert.Equal(t, "2025-05-31", *s.Date)

	got, err = Normalize(`{"date":null,"message":"NO_JOURNAL_ENTRY_IN_BODY"}`)
	require.NoError(t, err)
	s, ok = got.Sentinel()
	require.True(t, ok)
	assert.Nil(t, s.Date)

	got, err = Normalize(`[` + entryObject + `]`)
	require.NoError(t, err)
	_, ok = got.Sentinel()
	assert.False(t, ok)
}

func TestResult_MarshalIndent(t *testing.T) {
	raw := `[{"type":"credit","account":"20000-000-01","amount":1500.00,"description":"Rent <May> & fees","date":null,"Jnlidn":3,"extra":"x"}]`

	got, err := Normalize(raw)
	require.NoError(t, err)

	out, err := got.MarshalIndent()
	require.NoError(t, err)

	want := `[
  {
    "date": null,
    "Jnlidn": 3,
    "description": "Rent <May> & fees",
    "amount": 1500.00,
    "account": "20000-000-01",
    "type": "credit",
    "extra": "x"
  }
]
`
	assert.Equal(t, want, string(out))
}

func TestResult_MarshalIndentSentinelAndScalars(t *testing.T) {
	got := Result{
		json.RawMessage(`{"message":"NO_JOURNAL_ENTRY_IN_BODY","date":null}`),
		json.RawMessage(` 42 `),
	}

	out, err := got.MarshalIndent()
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"date\": null,\n    \"message\": \"NO_JOURNAL_ENTRY_IN_BODY\"\n  },\n  42\n]\n", string(out))

	out, err = Result{}.MarshalIndent()
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(out))
}

func TestTally(t *testing.T) {
	debits, credits := Tally([]JournalEntry{
		{Type: TypeDebit}, {Type: TypeCredit}, {Type: TypeDebit}, {Type: "memo"},
	})
	assert.Equal(t, 2, debits)
	assert.Equal(t, 1, credits)
}
