package report

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/project-ambr/ambr/internal/pkg/logger"
)

const (
	colSKU          = "sku"
	colOrderID      = "order-id"
	colLabelOrderID = "order_id"
	colVendor       = "vendor_name"
	colNewSKU       = "new_sku"
	colPrefix       = "prefix"
	colLabel        = "label"

	// OverallVendorsSheet maps SKU prefixes to label types in the new master.
	OverallVendorsSheet = "Overall vendors"

	LabelVendors    = "Label Vendors"
	NonLabelVendors = "Non-Label Vendors"
	UnknownVendor   = "Unknown"
)

// Output sheet names, in workbook order.
const (
	SheetLabelOrders    = "Label_Vendors_Orders"
	SheetNonLabelOrders = "Non_Label_Vendors_Orders"
	SheetUnknownVendors = "Unknown_Vendors_Report"
	SheetSKUCounts      = "SKU_Counts_Report"
	SheetVendorCounts   = "Vendor_Order_Counts"
	SheetNewSKUs        = "New_SKU_Report"
	SheetRemovedOrders  = "Removed_Orders"
)

var removedMarkers = []string{"RET", "INV"}

// marketplaceColumns are dropped from the label and non-label sheets.
var marketplaceColumns = []string{
	"order-item-id",
	"payments-date",
	"reporting-date",
	"days-past-promise",
	"buyer-email",
	"buyer-name",
	"payment-method-details",
	"cpf",
	"quantity-shipped",
	"quantity-to-ship",
	"ship-service-level",
	"ship-service-name",
	"ship-address-3",
	"gift-wrap-type",
	"gift-message-text",
	"payment-method",
	"cod-collectible-amount",
	"already-paid",
	"payment-method-fee",
	"customized-url",
	"customized-page",
	"purchase-order-number",
	"price-designation",
	"is-prime",
	"fulfilled-by",
	"is-premium-order",
	"buyer-company-name",
	"licensee-name",
	"license-number",
	"license-state",
	"license-expiration-date",
	"is-exchange-order",
	"original-order-id",
	"is-transparency",
	"default-ship-from-address-name",
	"default-ship-from-address-field-1",
	"default-ship-from-address-field-2",
	"default-ship-from-address-field-3",
	"default-ship-from-city",
	"default-ship-from-state",
	"default-ship-from-country",
	"default-ship-from-postal-code",
	"is-ispu-order",
	"store-chain-store-id",
	"buyer-requested-cancel-reason",
	"ioss-number",
	"is-shipping-settings-automation-enabled",
	"ssa-carrier",
	"ssa-ship-method",
	"tax-collection-model",
	"tax-collection-responsible-party",
	"verge-of-cancellation",
	"verge-of-lateshipment",
	"signature-confirmation-recommended",
}

// Inputs are the loaded sources of one report run.
type Inputs struct {
	OldMaster Workbook
	NewMaster Workbook
	Orders    *Table
}

// Result holds every output sheet of a report run.
type Result struct {
	Label        *Table
	NonLabel     *Table
	Unknown      *Table
	SKUCounts    *Table
	VendorCounts *Table
	NewSKUs      *Table
	Removed      *Table

	// order counts taken before marketplace columns are dropped
	LabelOrders    int
	NonLabelOrders int
	TotalOrders    int
}

// Sheets returns the output sheets in workbook order.
func (r *Result) Sheets() []NamedTable {
	return []NamedTable{
		{Name: SheetLabelOrders, Table: r.Label},
		{Name: SheetNonLabelOrders, Table: r.NonLabel},
		{Name: SheetUnknownVendors, Table: r.Unknown},
		{Name: SheetSKUCounts, Table: r.SKUCounts, NumericColumns: []string{"Unshipped Orders"}},
		{Name: SheetVendorCounts, Table: r.VendorCounts, NumericColumns: []string{"Order Count"}},
		{Name: SheetNewSKUs, Table: r.NewSKUs},
		{Name: SheetRemovedOrders, Table: r.Removed},
	}
}

type vendorResult struct {
	orders *Table
	label  string
}

// masterIndex holds the lookups taken from both master workbooks. It is
// read-only once built and shared by the vendor workers.
type masterIndex struct {
	labels   map[string]string
	orderIDs map[string]map[string]struct{}
	skus     map[string]map[string]struct{}
}

func newMasterIndex(overall *Table, masters ...Workbook) *masterIndex {
	idx := &masterIndex{
		labels:   make(map[string]string),
		orderIDs: make(map[string]map[string]struct{}),
		skus:     make(map[string]map[string]struct{}),
	}

	for _, row := range overall.Rows {
		prefix := overall.Get(row, colPrefix)
		if prefix == "" {
			continue
		}
		if _, seen := idx.labels[prefix]; !seen {
			idx.labels[prefix] = overall.Get(row, colLabel)
		}
	}

	for _, wb := range masters {
		for name, sheet := range wb {
			mergeSet(idx.orderIDs, name, sheet.Set(colLabelOrderID))
			mergeSet(idx.skus, name, sheet.Set(colSKU))
		}
	}

	return idx
}

func mergeSet(dst map[string]map[string]struct{}, key string, src map[string]struct{}) {
	set, ok := dst[key]
	if !ok {
		set = make(map[string]struct{}, len(src))
		dst[key] = set
	}
	for v := range src {
		set[v] = struct{}{}
	}
}

func (m *masterIndex) label(vendor string) string {
	if l, ok := m.labels[vendor]; ok {
		return l
	}

	return UnknownVendor
}

// Process splits the orders by vendor and builds every report sheet. Vendors
// are processed concurrently by at most workers goroutines; results are
// assembled in order of first appearance so the output is deterministic.
func Process(ctx context.Context, in Inputs, workers int) (*Result, error) {
	if in.Orders == nil {
		return nil, fmt.Errorf("no orders loaded")
	}
	overall, ok := in.NewMaster[OverallVendorsSheet]
	if !ok {
		return nil, fmt.Errorf("%q sheet not found in new master sheet", OverallVendorsSheet)
	}
	if workers < 1 {
		workers = 1
	}

	logger.Infoln("Removing rows with 'RET' or 'INV' in SKU...")
	removed := in.Orders.Filter(func(row []string) bool {
		return isRemoved(in.Orders.Get(row, colSKU))
	})
	orders := in.Orders.Filter(func(row []string) bool {
		return !isRemoved(in.Orders.Get(row, colSKU))
	})

	blank := orders.Len()
	orders = orders.Filter(func(row []string) bool {
		return orders.Get(row, colSKU) != ""
	})
	if blank -= orders.Len(); blank > 0 {
		logger.Warningf("Skipping %d order line(s) without a SKU\n", blank)
	}

	logger.Infoln("Extracting vendor names from SKUs...")
	orders = orders.WithColumn(colVendor, func(row []string) string {
		return vendorOf(orders.Get(row, colSKU))
	})
	orders = orders.Filter(func(row []string) bool {
		return orders.Get(row, colVendor) != UnknownVendor
	})

	vendors, byVendor := groupByVendor(orders)
	index := newMasterIndex(overall, in.OldMaster, in.NewMaster)

	logger.Infof("Processing %d vendor(s) with %d worker(s)...\n", len(vendors), workers, logger.VerbosityLevelInfo)
	results := make([]vendorResult, len(vendors))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, vendor := range vendors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processVendor(vendor, byVendor[vendor], index)

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return assemble(results, removed), nil
}

func isRemoved(sku string) bool {
	for _, m := range removedMarkers {
		if strings.Contains(sku, m) {
			return true
		}
	}

	return false
}

func vendorOf(sku string) string {
	vendor, _, _ := strings.Cut(sku, "-")

	return vendor
}

func groupByVendor(orders *Table) ([]string, map[string]*Table) {
	var vendors []string
	byVendor := make(map[string]*Table)
	for _, row := range orders.Rows {
		v := orders.Get(row, colVendor)
		t, ok := byVendor[v]
		if !ok {
			t = NewTable(orders.Columns)
			byVendor[v] = t
			vendors = append(vendors, v)
		}
		t.Rows = append(t.Rows, row)
	}

	return vendors, byVendor
}

func processVendor(vendor string, orders *Table, index *masterIndex) vendorResult {
	logger.Infof("Processing vendor: %s\n", vendor, logger.VerbosityLevelDebug)

	label := index.label(vendor)
	seen := index.orderIDs[label]
	orders = orders.Filter(func(row []string) bool {
		_, dup := seen[orders.Get(row, colOrderID)]

		return !dup
	})

	known := index.skus[label]
	orders = orders.WithColumn(colNewSKU, func(row []string) string {
		if label == UnknownVendor {
			return strconv.FormatBool(false)
		}
		_, ok := known[orders.Get(row, colSKU)]

		return strconv.FormatBool(!ok)
	})

	return vendorResult{orders: orders, label: label}
}

func assemble(results []vendorResult, removed *Table) *Result {
	res := &Result{
		Label:    NewTable(nil),
		NonLabel: NewTable(nil),
		Unknown:  NewTable(nil),
		NewSKUs:  NewTable(nil),
		Removed:  removed,
	}

	for _, r := range results {
		switch r.label {
		case LabelVendors:
			res.Label.Append(r.orders)
		case NonLabelVendors:
			res.NonLabel.Append(r.orders)
		default:
			res.Unknown.Append(r.orders)
		}

		if r.orders.Has(colNewSKU) {
			res.NewSKUs.Append(r.orders.Filter(func(row []string) bool {
				return r.orders.Get(row, colNewSKU) == strconv.FormatBool(true)
			}))
		}
	}

	all := NewTable(nil)
	all.Append(res.Label)
	all.Append(res.NonLabel)

	res.VendorCounts = vendorCounts(all)
	res.SKUCounts = skuCounts(all)
	res.LabelOrders = res.Label.Unique(colOrderID)
	res.NonLabelOrders = res.NonLabel.Unique(colOrderID)
	res.TotalOrders = all.Unique(colOrderID)

	res.Label = res.Label.Drop(marketplaceColumns...)
	res.NonLabel = res.NonLabel.Drop(marketplaceColumns...)

	return res
}

// vendorCounts counts the distinct order ids of each vendor, sorted by vendor.
func vendorCounts(all *Table) *Table {
	ids := make(map[string]map[string]struct{})
	for _, row := range all.Rows {
		v := all.Get(row, colVendor)
		if v == "" {
			continue
		}
		if ids[v] == nil {
			ids[v] = make(map[string]struct{})
		}
		if id := all.Get(row, colOrderID); id != "" {
			ids[v][id] = struct{}{}
		}
	}

	vendors := make([]string, 0, len(ids))
	for v := range ids {
		vendors = append(vendors, v)
	}
	sort.Strings(vendors)

	t := NewTable([]string{"Vendor", "Order Count"})
	for _, v := range vendors {
		t.Rows = append(t.Rows, []string{v, strconv.Itoa(len(ids[v]))})
	}

	return t
}

// skuCounts counts the order lines of each SKU, most frequent first.
func skuCounts(all *Table) *Table {
	counts := make(map[string]int)
	for _, row := range all.Rows {
		if sku := all.Get(row, colSKU); sku != "" {
			counts[sku]++
		}
	}

	skus := make([]string, 0, len(counts))
	for s := range counts {
		skus = append(skus, s)
	}
	sort.Slice(skus, func(i, j int) bool {
		if counts[skus[i]] != counts[skus[j]] {
			return counts[skus[i]] > counts[skus[j]]
		}

		return skus[i] < skus[j]
	})

	t := NewTable([]string{"SKU", "Unshipped Orders"})
	for _, s := range skus {
		t.Rows = append(t.Rows, []string{s, strconv.Itoa(counts[s])})
	}

	return t
}
