package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/frahmantamala/task-management/internal"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const testConfig = `
http_server:
  port: 3100
  read_timeout: 10s
database:
  driver: sqlite
  source: tasks.db
security:
  token_secret: file-token-secret
  session_secret: 0123456789abcdef0123456789abcdef
`

var _ = Describe("loadConfig", func() {
	var dir string

	BeforeEach(func() {
		GinkgoT().Setenv("APP_ENV", "")
		GinkgoT().Setenv("DOCKER_ENV", "")
		dir = GinkgoT().TempDir()
	})

	It("should read config.yml and fill defaults", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(testConfig), 0o600)).To(Succeed())

		cfg, err := loadConfig(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Server.Port).To(Equal(3100))
		Expect(cfg.Server.ReadTimeout).To(Equal(10 * time.Second))
		Expect(cfg.Database.Driver).To(Equal(internal.DriverSQLite))
		Expect(cfg.Security.TokenDuration).To(Equal(internal.DefaultTokenDuration))
	})

	It("should let ENV_ variables override the file", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(testConfig), 0o600)).To(Succeed())
		GinkgoT().Setenv("ENV_SECURITY_TOKEN_SECRET", "overridden")

		cfg, err := loadConfig(dir)

		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Security.TokenSecret).To(Equal("overridden"))
	})

	It("should refuse a file without a token secret", func() {
		Expect(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(`
http_server:
  port: 3100
database:
  driver: sqlite
  source: tasks.db
security:
  session_secret: 0123456789abcdef0123456789abcdef
`), 0o600)).To(Succeed())

		_, err := loadConfig(dir)

		Expect(err).To(MatchError(ContainSubstring("token secret is required")))
	})

	It("should fail when there is no config file", func() {
		_, err := loadConfig(dir)

		Expect(err).To(HaveOccurred())
	})
})
