package rulial_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRulial(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Rulial Suite")
}
