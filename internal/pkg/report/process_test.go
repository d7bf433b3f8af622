package report_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/project-ambr/ambr/internal/pkg/report"
)

var _ = Describe("Process", func() {
	var res *report.Result

	BeforeEach(func() {
		var err error
		res, err = report.Process(context.Background(), report.Inputs{
			OldMaster: oldMaster(),
			NewMaster: newMaster(),
			Orders:    orders(),
		}, 4)
		Expect(err).NotTo(HaveOccurred())
	})

	It("sets aside RET and INV lines with their original columns", func() {
		Expect(res.Removed.Columns).To(Equal(orderColumns))
		Expect(column(res.Removed, "order-id")).To(Equal([]string{"666", "777"}))
	})

	It("drops orders already present in either master", func() {
		Expect(column(res.Label, "order-id")).To(Equal([]string{"444", "444"}))
		Expect(column(res.NonLabel, "order-id")).To(Equal([]string{"555", "556"}))
	})

	It("routes vendors missing from the overview to the unknown sheet", func() {
		Expect(column(res.Unknown, "order-id")).To(Equal([]string{"999"}))
		Expect(column(res.Unknown, "vendor_name")).To(Equal([]string{"CUST"}))
		Expect(column(res.Unknown, "new_sku")).To(Equal([]string{"false"}))
		Expect(res.Unknown.Has("buyer-name")).To(BeTrue())
	})

	It("skips the Unknown vendor prefix entirely", func() {
		for _, t := range []*report.Table{res.Label, res.NonLabel, res.Unknown} {
			Expect(column(t, "order-id")).NotTo(ContainElement("888"))
		}
	})

	It("flags SKUs missing from the label sheets", func() {
		Expect(column(res.Label, "new_sku")).To(Equal([]string{"false", "true"}))
		Expect(column(res.NewSKUs, "sku")).To(Equal([]string{"ACME-9"}))
	})

	It("drops marketplace columns from the label sheets only", func() {
		Expect(res.Label.Columns).To(Equal([]string{"order-id", "sku", "quantity-purchased", "vendor_name", "new_sku"}))
		Expect(res.NonLabel.Has("order-item-id")).To(BeFalse())
	})

	It("counts distinct orders per vendor", func() {
		Expect(res.VendorCounts.Columns).To(Equal([]string{"Vendor", "Order Count"}))
		Expect(res.VendorCounts.Rows).To(Equal([][]string{{"ACME", "1"}, {"BOLT", "2"}}))
	})

	It("counts lines per SKU, most frequent first", func() {
		Expect(res.SKUCounts.Columns).To(Equal([]string{"SKU", "Unshipped Orders"}))
		Expect(res.SKUCounts.Rows).To(Equal([][]string{{"BOLT-1", "2"}, {"ACME-1", "1"}, {"ACME-9", "1"}}))
	})

	It("keeps the totals", func() {
		Expect(res.LabelOrders).To(Equal(1))
		Expect(res.NonLabelOrders).To(Equal(2))
		Expect(res.TotalOrders).To(Equal(3))
	})

	It("lays out the workbook sheets in order", func() {
		var names []string
		for _, s := range res.Sheets() {
			names = append(names, s.Name)
		}
		Expect(names).To(Equal([]string{
			"Label_Vendors_Orders",
			"Non_Label_Vendors_Orders",
			"Unknown_Vendors_Report",
			"SKU_Counts_Report",
			"Vendor_Order_Counts",
			"New_SKU_Report",
			"Removed_Orders",
		}))
	})

	It("produces the same result with a single worker", func() {
		serial, err := report.Process(context.Background(), report.Inputs{
			OldMaster: oldMaster(),
			NewMaster: newMaster(),
			Orders:    orders(),
		}, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(serial).To(Equal(res))
	})

	It("reports SKUs without a prefix as unknown and drops lines without a SKU", func() {
		in := orders()
		in.Rows = append(in.Rows,
			[]string{"701", "i11", "-ABC", "Jo", "1"},
			[]string{"702", "i12", "", "Kim", "1"},
		)
		wb := newMaster()
		overall := wb[report.OverallVendorsSheet]
		overall.Rows = append(overall.Rows, []string{"", report.LabelVendors})

		got, err := report.Process(context.Background(), report.Inputs{
			OldMaster: oldMaster(),
			NewMaster: wb,
			Orders:    in,
		}, 2)
		Expect(err).NotTo(HaveOccurred())

		Expect(column(got.Unknown, "order-id")).To(Equal([]string{"999", "701"}))
		Expect(column(got.Unknown, "vendor_name")).To(Equal([]string{"CUST", ""}))
		for _, t := range []*report.Table{got.Label, got.NonLabel, got.Unknown, got.Removed} {
			Expect(column(t, "order-id")).NotTo(ContainElement("702"))
		}
		Expect(got.TotalOrders).To(Equal(3))
	})

	It("requires the vendor overview sheet", func() {
		wb := newMaster()
		delete(wb, report.OverallVendorsSheet)
		_, err := report.Process(context.Background(), report.Inputs{NewMaster: wb, Orders: orders()}, 1)
		Expect(err).To(MatchError(ContainSubstring("Overall vendors")))
	})

	It("stops when the context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := report.Process(ctx, report.Inputs{NewMaster: newMaster(), Orders: orders()}, 1)
		Expect(err).To(MatchError(context.Canceled))
	})
})
