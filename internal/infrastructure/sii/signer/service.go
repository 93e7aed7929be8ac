// Servicio de firma digital XMLDSig enveloped para DTEs del SII.
// Inyecta <Signature> como último hijo de <DTE>, firmando el <Documento>
// referenciado por su atributo ID.

package signer

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/ucarion/c14n"

	pkgsii "github.com/AuraDigitalDevChile/vetconnect-favet-backend-sub000/pkg/sii"
)

// XMLDSigService firma DTEs con el certificado inyectado en la construcción.
// El certificado se carga una vez al arranque y no cambia durante la vida del
// proceso; el servicio es seguro para uso concurrente porque solo lo lee.
type XMLDSigService struct {
	cert     tls.Certificate
	priv     *rsa.PrivateKey
	x509Cert *x509.Certificate
}

// NewXMLDSigService crea el firmador con un certificado ya cargado (ver
// LoadFromP12). Rechaza certificados sin llave RSA: el SII solo acepta
// rsa-sha1.
func NewXMLDSigService(cert tls.Certificate) (*XMLDSigService, error) {
	priv, ok := cert.PrivateKey.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("sii: el certificado debe incluir llave privada RSA")
	}
	x509Cert := cert.Leaf
	if x509Cert == nil {
		var err error
		x509Cert, err = x509.ParseCertificate(cert.Certificate[0])
		if err != nil {
			return nil, fmt.Errorf("sii: parsear certificado: %w", err)
		}
	}
	return &XMLDSigService{cert: cert, priv: priv, x509Cert: x509Cert}, nil
}

// Demo implementa pkg/sii.Signer.
func (s *XMLDSigService) Demo() bool { return false }

// Sign firma el XML del DTE. Cualquier fallo (XML malformado, error de firma)
// se propaga: en modos productivos nunca se degrada a marcador de demo.
func (s *XMLDSigService) Sign(xmlBytes []byte) ([]byte, error) {
	if len(xmlBytes) == 0 {
		return nil, fmt.Errorf("sii: XML vacío")
	}

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = latin1Reader
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return nil, fmt.Errorf("sii: parsear XML: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "DTE" {
		return nil, fmt.Errorf("sii: el documento no es un DTE")
	}
	documento := root.SelectElement("Documento")
	if documento == nil {
		return nil, fmt.Errorf("sii: DTE sin nodo Documento")
	}
	refID := documento.SelectAttrValue("ID", "")
	if refID == "" {
		return nil, fmt.Errorf("sii: Documento sin atributo ID para la Reference")
	}

	// 1) Digest SHA-1 del documento canonicalizado (C14N)
	canonicalDoc, err := canonicalizeXML(xmlBytes)
	if err != nil {
		return nil, fmt.Errorf("sii: canonicalizar documento: %w", err)
	}
	docDigest := sha1.Sum(canonicalDoc)

	// 2) SignedInfo canonicalizado y firmado con rsa-sha1
	signedInfoXML := s.buildSignedInfo(refID, base64.StdEncoding.EncodeToString(docDigest[:]))
	canonicalSignedInfo, err := canonicalizeXML([]byte(signedInfoXML))
	if err != nil {
		return nil, fmt.Errorf("sii: canonicalizar SignedInfo: %w", err)
	}
	signHash := sha1.Sum(canonicalSignedInfo)
	signatureValue, err := rsa.SignPKCS1v15(nil, s.priv, crypto.SHA1, signHash[:])
	if err != nil {
		return nil, fmt.Errorf("sii: firmar SignedInfo: %w", err)
	}

	// 3) Nodo Signature completo (KeyInfo con llave y certificado)
	signatureXML := s.buildFullSignature(
		signedInfoXML,
		base64.StdEncoding.EncodeToString(signatureValue),
		base64.StdEncoding.EncodeToString(s.x509Cert.Raw),
	)

	// 4) Inyectar como último hijo de <DTE>, después de <Documento>
	sigDoc := etree.NewDocument()
	if err := sigDoc.ReadFromString(signatureXML); err != nil {
		return nil, fmt.Errorf("sii: parsear Signature: %w", err)
	}
	root.AddChild(sigDoc.Root())

	var out bytes.Buffer
	if _, err := doc.WriteTo(&out); err != nil {
		return nil, fmt.Errorf("sii: serializar DTE firmado: %w", err)
	}
	return out.Bytes(), nil
}

// CertificateInfo introspección de solo lectura del certificado activo.
func (s *XMLDSigService) CertificateInfo() (CertInfo, error) {
	return Info(s.cert)
}

func (s *XMLDSigService) buildSignedInfo(refID, docDigestB64 string) string {
	var sb strings.Builder
	sb.WriteString(`<SignedInfo xmlns="` + NamespaceDS + `">`)
	sb.WriteString(`<CanonicalizationMethod Algorithm="` + AlgC14N + `"/>`)
	sb.WriteString(`<SignatureMethod Algorithm="` + AlgRSASHA1 + `"/>`)
	sb.WriteString(`<Reference URI="#` + refID + `">`)
	sb.WriteString(`<Transforms><Transform Algorithm="` + TransformEnveloped + `"/></Transforms>`)
	sb.WriteString(`<DigestMethod Algorithm="` + AlgSHA1 + `"/>`)
	sb.WriteString(`<DigestValue>` + docDigestB64 + `</DigestValue>`)
	sb.WriteString(`</Reference>`)
	sb.WriteString(`</SignedInfo>`)
	return sb.String()
}

func (s *XMLDSigService) buildFullSignature(signedInfoXML, signatureValueB64, certB64 string) string {
	modulus := base64.StdEncoding.EncodeToString(s.priv.PublicKey.N.Bytes())
	exponent := base64.StdEncoding.EncodeToString(bigEndianExponent(s.priv.PublicKey.E))

	var sb strings.Builder
	sb.WriteString(`<Signature xmlns="` + NamespaceDS + `">`)
	sb.WriteString(signedInfoXML)
	sb.WriteString(`<SignatureValue>` + signatureValueB64 + `</SignatureValue>`)
	sb.WriteString(`<KeyInfo>`)
	sb.WriteString(`<KeyValue><RSAKeyValue>`)
	sb.WriteString(`<Modulus>` + modulus + `</Modulus>`)
	sb.WriteString(`<Exponent>` + exponent + `</Exponent>`)
	sb.WriteString(`</RSAKeyValue></KeyValue>`)
	sb.WriteString(`<X509Data><X509Certificate>` + certB64 + `</X509Certificate></X509Data>`)
	sb.WriteString(`</KeyInfo>`)
	sb.WriteString(`</Signature>`)
	return sb.String()
}

func bigEndianExponent(e int) []byte {
	var out []byte
	for e > 0 {
		out = append([]byte{byte(e & 0xff)}, out...)
		e >>= 8
	}
	if len(out) == 0 {
		out = []byte{0}
	}
	return out
}

func canonicalizeXML(data []byte) ([]byte, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	dec.CharsetReader = latin1Reader
	return c14n.Canonicalize(dec)
}

// latin1Reader acepta la declaración ISO-8859-1 de los DTE. El contenido
// sanitizado es ASCII, subconjunto común de ambas codificaciones, así que el
// reader puede pasar los bytes tal cual.
func latin1Reader(charset string, input io.Reader) (io.Reader, error) {
	return input, nil
}

var _ pkgsii.Signer = (*XMLDSigService)(nil)
