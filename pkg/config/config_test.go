package config_test

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/inkloomco/inkloom/pkg/config"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

var _ = Describe("Config", func() {
	Describe("NewDefaultConfig", func() {
		It("populates every section", func() {
			cfg := config.NewDefaultConfig()
			Expect(cfg.Version).To(Equal(config.CurrentV))
			Expect(cfg.VectorStore.Provider).To(Equal("sqlite"))
			Expect(cfg.VectorStore.Collection).NotTo(BeEmpty())
			Expect(cfg.Embedding.Dimensions).To(BeNumerically(">", 0))
			Expect(cfg.LLM.Provider).To(Equal("ollama"))
			Expect(cfg.Memory.RetrieveLimit).To(Equal(5))
			Expect(cfg.Memory.RecentWindow).To(Equal(3))
			Expect(cfg.EventStream.Provider).To(Equal("nop"))
		})
	})

	Describe("InitViper", func() {
		It("returns defaults when no config file exists", func() {
			v, err := config.InitViper(GinkgoT().TempDir())
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.FromViper(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.VectorStore.Provider).To(Equal("sqlite"))
			Expect(cfg.Memory.RecentWindow).To(Equal(3))
		})

		It("reads values from config.toml", func() {
			dir := GinkgoT().TempDir()
			content := "[llm]\nmodel = \"mistral\"\n\n[memory]\nrecent_window = 7\n"
			Expect(os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644)).To(Succeed())

			v, err := config.InitViper(dir)
			Expect(err).NotTo(HaveOccurred())

			cfg, err := config.FromViper(v)
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.LLM.Model).To(Equal("mistral"))
			Expect(cfg.Memory.RecentWindow).To(Equal(7))

			// Untouched sections keep their defaults.
			Expect(cfg.Embedding.Model).To(Equal("nomic-embed-text"))
		})

		It("lets environment variables override file values", func() {
			dir := GinkgoT().TempDir()
			GinkgoT().Setenv("INKLOOM_LLM_MODEL", "qwen3")

			v, err := config.InitViper(dir)
			Expect(err).NotTo(HaveOccurred())
			Expect(v.GetString("llm.model")).To(Equal("qwen3"))
		})
	})
})
