package signer

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dtePrueba = `<?xml version="1.0" encoding="ISO-8859-1"?>
<DTE version="1.0">
  <Documento ID="F1042T39">
    <Encabezado>
      <IdDoc>
        <TipoDTE>39</TipoDTE>
        <Folio>1042</Folio>
        <FchEmis>2026-03-15</FchEmis>
      </IdDoc>
      <Totales>
        <MntNeto>21008</MntNeto>
        <IVA>1992</IVA>
        <MntTotal>25000</MntTotal>
      </Totales>
    </Encabezado>
  </Documento>
</DTE>`

func certificadoDePrueba(t *testing.T) tls.Certificate {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tmpl := &x509.Certificate{
		SerialNumber: big.NewInt(77),
		Subject:      pkix.Name{CommonName: "Clinica Test", Organization: []string{"Test SpA"}},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
	}
	der, err := x509.CreateCertificate(rand.Reader, tmpl, tmpl, &key.PublicKey, key)
	require.NoError(t, err)
	leaf, err := x509.ParseCertificate(der)
	require.NoError(t, err)
	return tls.Certificate{Certificate: [][]byte{der}, PrivateKey: key, Leaf: leaf}
}

func TestXMLDSig_FirmaEnveloped(t *testing.T) {
	svc, err := NewXMLDSigService(certificadoDePrueba(t))
	require.NoError(t, err)
	assert.False(t, svc.Demo())

	signed, err := svc.Sign([]byte(dtePrueba))
	require.NoError(t, err)

	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = latin1Reader
	require.NoError(t, doc.ReadFromBytes(signed))

	root := doc.Root()
	hijos := root.ChildElements()
	require.Len(t, hijos, 2, "Documento + Signature")
	assert.Equal(t, "Documento", hijos[0].Tag)
	assert.Equal(t, "Signature", hijos[1].Tag, "la firma va como último hijo de DTE")

	sig := hijos[1]
	signedInfo := sig.SelectElement("SignedInfo")
	require.NotNil(t, signedInfo)
	assert.Equal(t, AlgRSASHA1,
		signedInfo.SelectElement("SignatureMethod").SelectAttrValue("Algorithm", ""))

	ref := signedInfo.SelectElement("Reference")
	require.NotNil(t, ref)
	assert.Equal(t, "#F1042T39", ref.SelectAttrValue("URI", ""),
		"la Reference apunta al ID del Documento")
	assert.Equal(t, AlgSHA1,
		ref.SelectElement("DigestMethod").SelectAttrValue("Algorithm", ""))
	assert.NotEmpty(t, ref.SelectElement("DigestValue").Text())

	assert.NotEmpty(t, sig.SelectElement("SignatureValue").Text())
	keyInfo := sig.SelectElement("KeyInfo")
	require.NotNil(t, keyInfo)
	assert.NotEmpty(t, keyInfo.SelectElement("X509Data").SelectElement("X509Certificate").Text())
}

func TestXMLDSig_ErroresSePropagan(t *testing.T) {
	svc, err := NewXMLDSigService(certificadoDePrueba(t))
	require.NoError(t, err)

	_, err = svc.Sign(nil)
	assert.Error(t, err)

	_, err = svc.Sign([]byte("<NoEsDTE></NoEsDTE>"))
	assert.Error(t, err, "un documento que no es DTE no se firma a medias")

	_, err = svc.Sign([]byte(`<DTE version="1.0"><Documento><Folio>1</Folio></Documento></DTE>`))
	assert.Error(t, err, "sin atributo ID no hay URI de Reference")
}

func TestXMLDSig_RequiereLlaveRSA(t *testing.T) {
	_, err := NewXMLDSigService(tls.Certificate{})
	assert.Error(t, err)
}

func TestXMLDSig_CertificateInfo(t *testing.T) {
	svc, err := NewXMLDSigService(certificadoDePrueba(t))
	require.NoError(t, err)

	info, err := svc.CertificateInfo()
	require.NoError(t, err)
	assert.Contains(t, info.Subject, "Clinica Test")
	assert.Equal(t, "4d", info.Serial)
	assert.True(t, info.NotAfter.After(info.NotBefore))
}

func TestDemoSigner_MarcadorUnico(t *testing.T) {
	s := NewDemoSigner()
	assert.True(t, s.Demo())

	out, err := s.Sign([]byte(dtePrueba))
	require.NoError(t, err)

	marked := string(out)
	assert.Equal(t, 1, strings.Count(marked, DemoMarker), "exactamente un marcador por firma")
	assert.Less(t, strings.Index(marked, DemoMarker), strings.Index(marked, "</DTE>"),
		"el marcador va antes del cierre de la raíz")

	// El contenido original se preserva íntegro alrededor del marcador
	assert.Contains(t, marked, "<Folio>1042</Folio>")
	assert.True(t, strings.HasPrefix(marked, `<?xml version="1.0" encoding="ISO-8859-1"?>`))
}

func TestDemoSigner_Errores(t *testing.T) {
	s := NewDemoSigner()
	_, err := s.Sign(nil)
	assert.Error(t, err)
	_, err = s.Sign([]byte("sin etiquetas"))
	assert.Error(t, err)
}
