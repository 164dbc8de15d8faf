package template

import (
	"strings"
	"testing"

	"github.com/hward/modsslctl/internal/config"
	"github.com/hward/modsslctl/internal/platform"
	"github.com/hward/modsslctl/internal/resolver"
)

func render(t *testing.T, p *config.Params, family, version string) string {
	t.Helper()
	cfg, err := resolver.Resolve(p, platform.Facts{Family: family, ApacheVersion: version})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	out, err := Render(cfg)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	return out
}

func TestRenderDefaults(t *testing.T) {
	out := render(t, config.New(), "debian", "2.4.62")

	wantLines := []string{
		"<IfModule mod_ssl.c>",
		"SSLCompression Off",
		"SSLPassPhraseDialog builtin",
		`SSLSessionCache "shmcb:${APACHE_RUN_DIR}/ssl_scache(512000)"`,
		"SSLSessionCacheTimeout 300",
		"SSLRandomSeed startup file:/dev/urandom 512",
		"SSLRandomSeed connect builtin",
		"SSLHonorCipherOrder On",
		"SSLCipherSuite HIGH:MEDIUM:!aNULL:!MD5:!RC4:!3DES",
		"SSLProtocol all -SSLv3",
		"Mutex default ssl-cache",
		"</IfModule>",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("rendered output missing %q\n%s", line, out)
		}
	}

	dontWant := []string{
		"SSLCryptoDevice",   // builtin is the Apache default, not rendered
		"SSLSessionTickets", // unset
		"SSLUseStapling",    // stapling off
		"LoadModule",        // no lib path on debian
		"SSLMutex",          // 2.4 spelling is Mutex
	}
	for _, line := range dontWant {
		if strings.Contains(out, line) {
			t.Errorf("rendered output should not contain %q\n%s", line, out)
		}
	}
}

func TestRenderLegacyMutex(t *testing.T) {
	out := render(t, config.New(), "debian", "2.2")

	if !strings.Contains(out, "SSLMutex file:${APACHE_RUN_DIR}/ssl_mutex") {
		t.Errorf("expected pre-2.4 SSLMutex directive\n%s", out)
	}
	if strings.Contains(out, "Mutex default ssl-cache") {
		t.Errorf("2.2 output should not use the 2.4 Mutex spelling\n%s", out)
	}
}

func TestRenderStapling(t *testing.T) {
	t.Run("enabled on 2.4", func(t *testing.T) {
		p := config.New()
		p.Stapling = true
		p.StaplingReturnErrors = true
		out := render(t, p, "redhat", "2.4.62")

		wantLines := []string{
			"<IfModule socache_shmcb_module>",
			"SSLUseStapling On",
			`SSLStaplingCache "shmcb:/run/httpd/ssl_stapling(32768)"`,
			"SSLStaplingReturnResponderErrors On",
		}
		for _, line := range wantLines {
			if !strings.Contains(out, line) {
				t.Errorf("rendered output missing %q\n%s", line, out)
			}
		}
	})

	t.Run("suppressed on 2.2", func(t *testing.T) {
		p := config.New()
		p.Stapling = true
		out := render(t, p, "redhat", "2.2")

		if strings.Contains(out, "SSLUseStapling") {
			t.Errorf("stapling needs the shared-object cache from 2.4\n%s", out)
		}
	})
}

func TestRenderOptionalDirectives(t *testing.T) {
	p := config.New()
	p.CryptoDevice = "ubsec"
	p.SessionTickets = config.Bool(false)
	p.Options = []string{"+StdEnvVars", "+ExportCertData"}
	p.OpenSSLConfCmds = []string{"DHParameters dhparams.pem", "Curves secp384r1"}
	p.ProxyProtocols = []string{"all", "-SSLv2"}
	p.ProxyCipher = "HIGH"
	h := config.HonorString("off")
	p.HonorCipherOrder = &h

	out := render(t, p, "debian", "2.4")

	wantLines := []string{
		"SSLCryptoDevice ubsec",
		"SSLSessionTickets Off",
		"SSLOptions +StdEnvVars +ExportCertData",
		"SSLOpenSSLConfCmd DHParameters dhparams.pem",
		"SSLOpenSSLConfCmd Curves secp384r1",
		"SSLProxyProtocol all -SSLv2",
		"SSLProxyCipherSuite HIGH",
		"SSLHonorCipherOrder Off",
	}
	for _, line := range wantLines {
		if !strings.Contains(out, line) {
			t.Errorf("rendered output missing %q\n%s", line, out)
		}
	}
}

func TestRenderLibPath(t *testing.T) {
	p := config.New()
	p.Mpm = "worker"
	out := render(t, p, "suse", "2.4")

	if !strings.HasPrefix(out, "LoadModule ssl_module /usr/lib64/apache2-worker/mod_ssl.so\n") {
		t.Errorf("expected worker LoadModule first\n%s", out)
	}
}

func TestRenderDeterministic(t *testing.T) {
	p := config.New()
	p.Stapling = true
	first := render(t, p, "gentoo", "2.4.58")
	second := render(t, p, "gentoo", "2.4.58")

	if first != second {
		t.Error("identical inputs rendered different output")
	}
}
