// Carga de certificado digital desde .p12/.pfx (PKCS#12).

package signer

import (
	"crypto/tls"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/pkcs12"
)

// LoadFromP12 carga certificado y llave privada desde un archivo .p12/.pfx.
// Se llama una sola vez al arranque; el tls.Certificate resultante es
// inmutable y se inyecta en el firmador. Un archivo ausente, una clave
// incorrecta o un contenedor corrupto son errores de configuración fatales:
// no mejoran reintentando.
func LoadFromP12(path, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("leer p12: %w", err)
	}
	priv, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decodificar p12: %w", err)
	}
	return tls.Certificate{
		Certificate: [][]byte{cert.Raw},
		PrivateKey:  priv,
		Leaf:        cert,
	}, nil
}

// CertInfo datos de solo lectura del certificado cargado, para visibilidad
// operacional (endpoint de salud, logs de arranque).
type CertInfo struct {
	Subject   string
	Issuer    string
	NotBefore time.Time
	NotAfter  time.Time
	Serial    string
}

// Info extrae los datos del certificado sin requerir capacidad de firma.
func Info(cert tls.Certificate) (CertInfo, error) {
	if cert.Leaf == nil {
		return CertInfo{}, fmt.Errorf("certificado sin hoja parseada")
	}
	return CertInfo{
		Subject:   cert.Leaf.Subject.String(),
		Issuer:    cert.Leaf.Issuer.String(),
		NotBefore: cert.Leaf.NotBefore,
		NotAfter:  cert.Leaf.NotAfter,
		Serial:    cert.Leaf.SerialNumber.Text(16),
	}, nil
}
