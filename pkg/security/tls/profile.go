// Package tls maps TLS security profiles from the configuration document to
// crypto/tls settings. A profile either names a predefined posture (Old,
// Intermediate, Modern) or is Custom, carrying an explicit minimum version
// and cipher list.
package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
)

// TLS security profile type discriminator values. These are part of the
// wire contract.
const (
	ProfileOldType          = "OldType"
	ProfileIntermediateType = "IntermediateType"
	ProfileModernType       = "ModernType"
	ProfileCustomType       = "Custom"
)

// Minimum TLS version wire names.
const (
	VersionTLS10 = "VersionTLS10"
	VersionTLS11 = "VersionTLS11"
	VersionTLS12 = "VersionTLS12"
	VersionTLS13 = "VersionTLS13"
)

// versionIDs maps version wire names to crypto/tls constants.
var versionIDs = map[string]uint16{
	VersionTLS10: tls.VersionTLS10,
	VersionTLS11: tls.VersionTLS11,
	VersionTLS12: tls.VersionTLS12,
	VersionTLS13: tls.VersionTLS13,
}

// profileMinVersions maps each predefined profile to its minimum version.
var profileMinVersions = map[string]string{
	ProfileOldType:          VersionTLS10,
	ProfileIntermediateType: VersionTLS12,
	ProfileModernType:       VersionTLS13,
}

// cipherSuiteIDs maps cipher suite names to their crypto/tls constants.
// Only suites Go implements are listed.
var cipherSuiteIDs = map[string]uint16{
	// TLS 1.3 suites (always enabled by Go, cannot be disabled)
	"TLS_AES_128_GCM_SHA256":       tls.TLS_AES_128_GCM_SHA256,
	"TLS_AES_256_GCM_SHA384":       tls.TLS_AES_256_GCM_SHA384,
	"TLS_CHACHA20_POLY1305_SHA256": tls.TLS_CHACHA20_POLY1305_SHA256,

	// TLS 1.2 ECDHE suites
	"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256":         tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384":         tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256":       tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
	"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384":       tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
	"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256":   tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256": tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,

	// Legacy TLS 1.2 suites permitted only by the Old profile
	"TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA":   tls.TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA,
	"TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA":   tls.TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA,
	"TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA": tls.TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA,
	"TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA": tls.TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA,
	"TLS_RSA_WITH_AES_128_GCM_SHA256":      tls.TLS_RSA_WITH_AES_128_GCM_SHA256,
	"TLS_RSA_WITH_AES_256_GCM_SHA384":      tls.TLS_RSA_WITH_AES_256_GCM_SHA384,
	"TLS_RSA_WITH_AES_128_CBC_SHA":         tls.TLS_RSA_WITH_AES_128_CBC_SHA,
	"TLS_RSA_WITH_AES_256_CBC_SHA":         tls.TLS_RSA_WITH_AES_256_CBC_SHA,
}

// modernCiphers are the suites of the Modern profile.
var modernCiphers = []string{
	"TLS_AES_128_GCM_SHA256",
	"TLS_AES_256_GCM_SHA384",
	"TLS_CHACHA20_POLY1305_SHA256",
}

// intermediateCiphers extend the Modern set with TLS 1.2 ECDHE suites.
var intermediateCiphers = append(modernCiphers[:len(modernCiphers):len(modernCiphers)],
	"TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256",
	"TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384",
	"TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256",
	"TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384",
	"TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256",
	"TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256",
)

// oldCiphers extend the Intermediate set with legacy suites.
var oldCiphers = append(intermediateCiphers[:len(intermediateCiphers):len(intermediateCiphers)],
	"TLS_ECDHE_RSA_WITH_AES_128_CBC_SHA",
	"TLS_ECDHE_RSA_WITH_AES_256_CBC_SHA",
	"TLS_ECDHE_ECDSA_WITH_AES_128_CBC_SHA",
	"TLS_ECDHE_ECDSA_WITH_AES_256_CBC_SHA",
	"TLS_RSA_WITH_AES_128_GCM_SHA256",
	"TLS_RSA_WITH_AES_256_GCM_SHA384",
	"TLS_RSA_WITH_AES_128_CBC_SHA",
	"TLS_RSA_WITH_AES_256_CBC_SHA",
)

// KnownProfileType reports whether name is a recognized profile type.
func KnownProfileType(name string) bool {
	if name == ProfileCustomType {
		return true
	}
	_, ok := profileMinVersions[name]
	return ok
}

// KnownVersion reports whether name is a recognized TLS version wire name.
func KnownVersion(name string) bool {
	_, ok := versionIDs[name]
	return ok
}

// KnownCipher reports whether name is a cipher suite Go can negotiate.
func KnownCipher(name string) bool {
	_, ok := cipherSuiteIDs[name]
	return ok
}

// VersionID converts a TLS version wire name to its crypto/tls constant.
func VersionID(name string) (uint16, error) {
	id, ok := versionIDs[name]
	if !ok {
		return 0, fmt.Errorf("unknown TLS version %q", name)
	}
	return id, nil
}

// MinVersionForProfile returns the minimum version wire name for a profile.
// For the Custom profile, minTLSVersion is returned (or TLS 1.2 when empty).
// An empty or unknown profile falls back to the Intermediate posture.
func MinVersionForProfile(profileType, minTLSVersion string) string {
	if profileType == ProfileCustomType {
		if minTLSVersion == "" {
			return VersionTLS12
		}
		return minTLSVersion
	}
	if v, ok := profileMinVersions[profileType]; ok {
		return v
	}
	return VersionTLS12
}

// CiphersForProfile returns the cipher suite names permitted by a profile.
// For the Custom profile, the configured ciphers are returned as-is; nil
// means Go's secure defaults.
func CiphersForProfile(profileType string, ciphers []string) []string {
	switch profileType {
	case ProfileCustomType:
		return ciphers
	case ProfileOldType:
		return oldCiphers
	case ProfileModernType:
		return modernCiphers
	default:
		return intermediateCiphers
	}
}

// CipherSuiteIDs converts cipher suite names to crypto/tls constants,
// silently skipping names Go cannot negotiate. Nil input yields nil,
// keeping Go's secure defaults.
func CipherSuiteIDs(names []string) []uint16 {
	if len(names) == 0 {
		return nil
	}
	var ids []uint16
	for _, name := range names {
		if id, ok := cipherSuiteIDs[name]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// ValidateCACertificate checks that data holds at least one PEM-encoded
// certificate usable as a CA pool.
func ValidateCACertificate(data []byte) error {
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return fmt.Errorf("no PEM certificates found")
	}
	return nil
}
