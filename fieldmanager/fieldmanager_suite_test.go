package fieldmanager_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFieldmanager(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fieldmanager Suite")
}
