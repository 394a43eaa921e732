package fieldmanager_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/xid"

	"github.com/sarchlab/zincfield/field"
	"github.com/sarchlab/zincfield/fieldmanager"
	"github.com/sarchlab/zincfield/message"
)

func newConstant(value float64) *field.Field {
	f, err := field.New("", 1, nil, nil, field.NewConstant([]float64{value}))
	Expect(err).NotTo(HaveOccurred())
	return f
}

var _ = Describe("Manager", func() {
	var m *fieldmanager.Manager

	BeforeEach(func() {
		m = fieldmanager.New(xid.New(), nil)
	})

	// S1. Unique naming.
	It("auto-names empty-named fields temp1, temp2, ... and rejects explicit collisions", func() {
		first, err := m.Add(newConstant(1), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Name()).To(Equal("temp1"))

		_, err = m.Add(newConstant(2), "temp1")
		Expect(err).To(HaveOccurred())
		Expect(message.CodeOf(err)).To(Equal(message.AlreadyExists))

		third, err := m.Add(newConstant(3), "")
		Expect(err).NotTo(HaveOccurred())
		Expect(third.Name()).To(Equal("temp2"))
	})

	It("never lets two managed fields share a name", func() {
		_, err := m.Add(newConstant(1), "a")
		Expect(err).NotTo(HaveOccurred())
		_, err = m.Add(newConstant(2), "a")
		Expect(err).To(HaveOccurred())
	})

	// S2. Cycle rejection: A depends on B; modifying B to depend on A
	// must fail and leave B unchanged.
	It("rejects a redefinition that would create a cycle, leaving the field unchanged", func() {
		b, err := m.Add(newConstant(1), "b")
		Expect(err).NotTo(HaveOccurred())
		a, err := field.NewAdd("a", b, b)
		Expect(err).NotTo(HaveOccurred())
		a, err = m.Add(a, "a")
		Expect(err).NotTo(HaveOccurred())

		originalCore := b.Core()
		err = m.ModifyDefinition(b, field.NewConstant([]float64{9}), []*field.Field{a})
		Expect(err).To(HaveOccurred())
		Expect(message.CodeOf(err)).To(Equal(message.Argument))
		Expect(b.Core()).To(Equal(originalCore))
	})

	// S5. Managed-flag lifecycle.
	It("keeps a managed field alive across reference release, then destroys it once unmanaged", func() {
		f, err := m.Add(newConstant(1), "f")
		Expect(err).NotTo(HaveOccurred())
		f.SetManaged(true)
		f.Release()

		_, ok := m.FindByName("f")
		Expect(ok).To(BeTrue())

		err = m.Destroy(f)
		Expect(err).To(HaveOccurred())
		Expect(message.CodeOf(err)).To(Equal(message.InUse))

		f.SetManaged(false)
		err = m.Destroy(f)
		Expect(err).NotTo(HaveOccurred())

		_, ok = m.FindByName("f")
		Expect(ok).To(BeFalse())
	})

	It("renames a field, uniquifying against a collision", func() {
		a, err := m.Add(newConstant(1), "a")
		Expect(err).NotTo(HaveOccurred())
		_, err = m.Add(newConstant(2), "b")
		Expect(err).NotTo(HaveOccurred())

		Expect(m.Rename(a, "b")).To(Succeed())
		Expect(a.Name()).To(Equal("b_2"))
	})

	It("lists every managed field", func() {
		_, err := m.Add(newConstant(1), "a")
		Expect(err).NotTo(HaveOccurred())
		_, err = m.Add(newConstant(2), "b")
		Expect(err).NotTo(HaveOccurred())

		out := m.List()
		Expect(out).To(ContainSubstring("a"))
		Expect(out).To(ContainSubstring("b"))
	})
})
