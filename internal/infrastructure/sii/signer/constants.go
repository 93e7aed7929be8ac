// Constantes para la firma XMLDSig enveloped de DTEs.

package signer

// Namespaces y algoritmos XMLDSig. El SII exige SHA-1 y rsa-sha1: es el
// algoritmo que su validador acepta, no una elección libre.
const (
	NamespaceDS        = "http://www.w3.org/2000/09/xmldsig#"
	AlgC14N            = "http://www.w3.org/TR/2001/REC-xml-c14n-20010315"
	AlgRSASHA1         = "http://www.w3.org/2000/09/xmldsig#rsa-sha1"
	AlgSHA1            = "http://www.w3.org/2000/09/xmldsig#sha1"
	TransformEnveloped = "http://www.w3.org/2000/09/xmldsig#enveloped-signature"
)

// DemoMarker es el comentario inerte que el firmador de demostración inserta
// en lugar de una firma real. Ningún consumidor debe confundirlo con una firma.
const DemoMarker = "FIRMA DE DEMOSTRACION - DOCUMENTO SIN VALIDEZ TRIBUTARIA"
