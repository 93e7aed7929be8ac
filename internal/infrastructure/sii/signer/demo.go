package signer

import (
	"fmt"
	"strings"

	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// DemoSigner devuelve el XML de entrada con un único comentario marcador
// antes del cierre del elemento raíz, sin tocar criptografía ni certificados.
// El documento resultante NO es válido ante el SII; los consumidores deben
// consultar Demo() antes de confiar en la "firma".
type DemoSigner struct{}

// NewDemoSigner crea el firmador de demostración.
func NewDemoSigner() *DemoSigner {
	return &DemoSigner{}
}

// Demo implementa pkg/sii.Signer.
func (s *DemoSigner) Demo() bool { return true }

// Sign inserta el marcador inerte antes de la etiqueta de cierre de la raíz.
func (s *DemoSigner) Sign(xmlBytes []byte) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("sii: XML vacío")
	}
	content := string(xmlBytes)
	idx := strings.LastIndex(content, "</")
	if idx < 0 {
		return nil, fmt.Errorf("sii: el XML no tiene etiqueta de cierre de raíz")
	}
	marked := content[:idx] + "<!-- " + DemoMarker + " -->\n" + content[idx:]
	return []byte(marked), nil
}

var _ pkgsii.Signer = (*DemoSigner)(nil)
