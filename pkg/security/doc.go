// Package security provides SSRF protection for outbound HTTP calls made by
// tools such as httpfetch.
//
// # Overview
//
// Tools that fetch arbitrary URLs supplied in node inputs are a classic SSRF
// vector: a workflow could otherwise be used to probe internal services or
// cloud metadata endpoints from inside the cluster running the engine.
// SSRFProtection validates a URL before any outbound request is made.
//
// # Basic Usage
//
//	protection := security.NewSSRFProtection()
//	if err := protection.ValidateURL(targetURL); err != nil {
//	    return fmt.Errorf("blocked by SSRF protection: %w", err)
//	}
//
// # Configuration
//
//	protection := security.NewSSRFProtectionWithConfig(security.SSRFConfig{
//	    AllowedSchemes:     []string{"https"},
//	    BlockPrivateIPs:    true,
//	    BlockLocalhost:     true,
//	    BlockLinkLocal:     true,
//	    BlockCloudMetadata: true,
//	    AllowedDomains:     []string{"api.example.com"},
//	})
//
// ValidateURL rejects private, loopback, link-local, and cloud metadata
// addresses by default, resolving hostnames and checking every returned IP
// rather than trusting DNS to answer with a public address.
package security
