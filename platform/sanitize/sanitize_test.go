package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "no fines", "no fines"},
		{"tags", "<b>Fine</b> issued", "Fine issued"},
		{"encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;ok", "ok"},
		{"georgian", "<span>ჯარიმა</span>", "ჯარიმა"},
		{"entities", "Tom &amp; Jerry", "Tom & Jerry"},
		{"trims", "  padded  ", "padded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestTextCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "Receipt 12 paid", Text("Receipt\n\t12   <i>paid</i> "))
	assert.Equal(t, "", Text(" \n "))
}

func TestTextPtr(t *testing.T) {
	assert.Nil(t, TextPtr(nil))

	in := "<p>No data</p>"
	out := TextPtr(&in)
	if assert.NotNil(t, out) {
		assert.Equal(t, "No data", *out)
	}
	assert.Equal(t, "<p>No data</p>", in)
}
