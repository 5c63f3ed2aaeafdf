package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(&QFXParser{})

	p := r.Get("qfx")
	require.NotNil(t, p)
	assert.Equal(t, "qfx", p.Format())
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := NewRegistry()
	assert.Nil(t, r.Get("nonexistent"))
}

func TestRegistry_CaseInsensitive(t *testing.T) {
	r := NewRegistry()
	r.Register(&QFXParser{})
	assert.NotNil(t, r.Get("Qfx"))
	assert.NotNil(t, r.Get("QFX"))
}

func TestRegistry_ForUnsupported(t *testing.T) {
	r := DefaultRegistry()

	// csv is offered to the user but has no parser yet.
	p, err := r.For("csv")
	assert.Nil(t, p)

	var uerr *UnsupportedFormatError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "csv", uerr.Format)
}

func TestRegistry_ForSupported(t *testing.T) {
	r := DefaultRegistry()
	p, err := r.For("qfx")
	require.NoError(t, err)
	assert.Equal(t, "qfx", p.Format())
}

func TestSupportedFormats(t *testing.T) {
	formats := SupportedFormats()
	assert.Contains(t, formats, "qfx")
	assert.Contains(t, formats, "csv")
}
