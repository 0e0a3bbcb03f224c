package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWhatsAppPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"11999998888", "5511999998888"},      // celular BR com DDD
		{"1133334444", "551133334444"},        // fixo BR com DDD
		{"(11) 99999-8888", "5511999998888"},  // formatado
		{"+55 11 99999-8888", "5511999998888"}, // já com DDI
		{"5511999998888", "5511999998888"},    // já normalizado
	}
	for _, tt := range tests {
		got, err := NormalizeWhatsAppPhone(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNormalizeWhatsAppPhoneRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "12345", "abc"} {
		_, err := NormalizeWhatsAppPhone(in)
		assert.Error(t, err, in)
	}
}

func TestWaMeLink(t *testing.T) {
	link, err := WaMeLink("(11) 99999-8888", "")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/5511999998888", link)

	link, err = WaMeLink("11999998888", "Olá, tudo bem?")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/5511999998888?text=Ol%C3%A1%2C+tudo+bem%3F", link)
}
