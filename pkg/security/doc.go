/*
Package security groups the security-sensitive helpers of the configuration
engine: secret file handling and TLS security profiles.

# Secret Files

Credentials are never placed inline in the configuration document; they are
referenced by path and read during resolution:

	apiKey, err := secrets.Read("/var/secrets/openai-api-key")
	if err != nil {
		log.Fatal(err)
	}

Read enforces that the file is a regular, non-empty, size-bounded file that
is not world-readable. Certificates go through ReadPEM, which allows wider
permissions since they are not confidential.

# TLS Security Profiles

A configuration document selects a TLS posture by profile name
(OldType, IntermediateType, ModernType) or spells out a Custom one:

	min := tls.MinVersionForProfile(profile.ProfileType, profile.MinTLSVersion)
	suites := tls.CipherSuiteIDs(tls.CiphersForProfile(profile.ProfileType, profile.Ciphers))

The tls subpackage maps profile names, version names and cipher suite names
to their crypto/tls constants and rejects names Go cannot negotiate.
*/
package security
