package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

// cbContext stubs only the Callback accessor; the embedded interface
// stays nil and panics if anything else is touched.
type cbContext struct {
	tele.Context
	data string
}

func (c cbContext) Callback() *tele.Callback {
	return &tele.Callback{Data: c.data}
}

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		data    string
		unique  string
		payload string
	}{
		{"\fanswer|7|100|10", "answer", "7|100|10"},
		{"\fstart_test|3", "start_test", "3"},
		{"\fconfirm_ai", "confirm_ai", ""},
		{"plain", "plain", ""},
	}
	for _, tc := range cases {
		unique, payload := ParseCallbackData(&tele.Callback{Data: tc.data})
		if unique != tc.unique || payload != tc.payload {
			t.Errorf("ParseCallbackData(%q) = (%q, %q), want (%q, %q)",
				tc.data, unique, payload, tc.unique, tc.payload)
		}
	}
}

func TestPayloadInt64(t *testing.T) {
	got, err := PayloadInt64(cbContext{data: "\fstart_test|42"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Fatalf("got %d, want 42", got)
	}

	if _, err := PayloadInt64(cbContext{data: "\fstart_test|abc"}); err == nil {
		t.Fatal("expected error for non-numeric payload")
	}
}

func TestPayloadTwoInt64(t *testing.T) {
	a, b, err := PayloadTwoInt64(cbContext{data: "\fnav|7|2"}, "|")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != 7 || b != 2 {
		t.Fatalf("got (%d, %d), want (7, 2)", a, b)
	}

	if _, _, err := PayloadTwoInt64(cbContext{data: "\fnav|7"}, "|"); err == nil {
		t.Fatal("expected error for one part")
	}
	if _, _, err := PayloadTwoInt64(cbContext{data: "\fnav|7|2|9"}, "|"); err == nil {
		t.Fatal("expected error for three parts")
	}
}

func TestPayloadInt64s(t *testing.T) {
	got, err := PayloadInt64s(cbContext{data: "\fanswer|7|100|10"}, "|", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []int64{7, 100, 10}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if _, err := PayloadInt64s(cbContext{data: "\fanswer|7|100"}, "|", 3); err == nil {
		t.Fatal("expected error for wrong arity")
	}
	if _, err := PayloadInt64s(cbContext{data: "\fanswer"}, "|", 3); err == nil {
		t.Fatal("expected error for empty payload")
	}
}
