package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageLink(t *testing.T) {
	url := MessageLink("+52 (55) 1234-5678", "Hola Marta, confirmamos la reunión")
	assert.Equal(t, "https://wa.me/525512345678?text=Hola+Marta%2C+confirmamos+la+reuni%C3%B3n", url)
}

func TestMessageLinkSoloDigitos(t *testing.T) {
	url := MessageLink("ext. 99", "hola")
	assert.Equal(t, "https://wa.me/99?text=hola", url)
}
