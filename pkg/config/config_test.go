package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSIIConfigValidate_DemoNoExigeNada(t *testing.T) {
	cfg := SIIConfig{Mode: SIIModeDemo}
	assert.NoError(t, cfg.Validate())
}

func TestSIIConfigValidate_ProduccionCompleta(t *testing.T) {
	cfg := SIIConfig{
		Mode:             SIIModeProduction,
		CertPath:         "/etc/sii/cert.p12",
		CertPassword:     "secreto",
		ResolutionNumber: "80",
		ResolutionDate:   "2014-08-22",
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, time.Date(2014, 8, 22, 0, 0, 0, 0, time.UTC), cfg.ParsedResolutionDate())
}

func TestSIIConfigValidate_EnumeraTodosLosFaltantes(t *testing.T) {
	cfg := SIIConfig{Mode: SIIModeCertification}

	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.ElementsMatch(t, []string{
		"SII_CERT_PATH",
		"SII_CERT_PASSWORD",
		"SII_RESOLUTION_NUMBER",
		"SII_RESOLUTION_DATE",
	}, cfgErr.Fields)
	assert.Contains(t, err.Error(), "SII_CERT_PATH")
}

func TestSIIConfigValidate_ModoInvalido(t *testing.T) {
	cfg := SIIConfig{
		Mode:             "staging",
		CertPath:         "/etc/sii/cert.p12",
		CertPassword:     "secreto",
		ResolutionNumber: "80",
		ResolutionDate:   "2014-08-22",
	}

	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Len(t, cfgErr.Fields, 1)
	assert.Contains(t, cfgErr.Fields[0], "SII_MODE")
}

func TestSIIConfigValidate_FechaMalFormada(t *testing.T) {
	cfg := SIIConfig{
		Mode:             SIIModeProduction,
		CertPath:         "/etc/sii/cert.p12",
		CertPassword:     "secreto",
		ResolutionNumber: "80",
		ResolutionDate:   "22/08/2014",
	}

	err := cfg.Validate()
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	require.Len(t, cfgErr.Fields, 1)
	assert.Contains(t, cfgErr.Fields[0], "SII_RESOLUTION_DATE")
}

func TestDBConfigDSN_EscapaCaracteresEspeciales(t *testing.T) {
	cfg := DBConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "vet",
		Password: "p@ss/word",
		DBName:   "vetconnect",
		SSLMode:  "disable",
	}
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "p%40ss%2Fword")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestHTTPConfigAddr(t *testing.T) {
	cfg := HTTPConfig{Host: "0.0.0.0", Port: 8080}
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}
