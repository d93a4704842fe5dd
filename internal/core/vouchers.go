package core

import (
	"math"
	"sort"
	"strings"
)

// voucherAmtEpsilon guards the zero-amount fallback: a ledger sum at or
// below this is treated as noise and the voucher amount stays 0.
const voucherAmtEpsilon = 0.5

type (
	// VoucherRow is one flat row from the paginated voucher store. Several
	// rows share a MstID (one voucher has many ledger/item rows). Numeric
	// fields arrive raw and are parsed leniently during grouping. An empty
	// LedgerID means the row carries no ledger posting.
	VoucherRow struct {
		MstID      string
		Date       string
		VchType    string
		VchNo      string
		Party      string
		LedgerID   string
		Ledger     string
		IsParty    string
		LedgerAmt  string
		Item       string
		Qty        string
		Amt        string
		VoucherAmt string
	}

	// ItemLine is one stock item line under a ledger posting. Rate is nil
	// when the quantity is zero; the division is never performed.
	ItemLine struct {
		Item string
		Qty  float64
		Rate *float64
		Amt  float64
	}

	// LedgerGroup is one ledger posting of a voucher with its item lines.
	LedgerGroup struct {
		LedgerID  string
		Ledger    string
		IsParty   bool
		LedgerAmt float64
		Items     []ItemLine
	}

	// VoucherCard is the derived voucher -> ledger -> item tree shown in the
	// drilldown detail view. It is rebuilt from its source rows on every
	// grouping pass and never persisted on its own.
	VoucherCard struct {
		MstID      string
		Date       string
		VchType    string
		VchNo      string
		Party      string
		VoucherAmt float64
		Ledgers    []LedgerGroup
	}
)

type voucherDraft struct {
	card        VoucherCard
	rawAmt      string
	ledgerOrder []string
	ledgers     map[string]*LedgerGroup
}

// GroupVouchers builds the three-level ownership tree from flat store rows.
// It is page-scoped by design: the caller runs it once per fetched page, and
// a voucher whose rows straddle a page boundary yields one partial card per
// page (see the store's ordering contract for the mitigation).
//
// Rows with an empty MstID are skipped; no voucher is ever emitted with an
// undefined identity. The pass has two named phases: a mutable index build
// keyed by voucher id, then conversion to ordered immutable cards.
func GroupVouchers(rows []VoucherRow) []VoucherCard {
	order, drafts := buildVoucherIndex(rows)
	return finalizeVouchers(order, drafts)
}

// buildVoucherIndex partitions rows by voucher id, preserving the first-seen
// header fields and first-seen ledger order within each voucher.
func buildVoucherIndex(rows []VoucherRow) ([]string, map[string]*voucherDraft) {
	order := make([]string, 0)
	drafts := make(map[string]*voucherDraft)

	for _, row := range rows {
		id := strings.TrimSpace(row.MstID)
		if id == "" {
			continue
		}

		d := drafts[id]
		if d == nil {
			d = &voucherDraft{
				card: VoucherCard{
					MstID:   id,
					Date:    row.Date,
					VchType: row.VchType,
					VchNo:   row.VchNo,
					Party:   row.Party,
				},
				rawAmt:  row.VoucherAmt,
				ledgers: make(map[string]*LedgerGroup),
			}
			drafts[id] = d
			order = append(order, id)
		}

		// Rows with no ledger id contribute the voucher header only; an item
		// line exists only under a ledger posting.
		if row.LedgerID == "" {
			continue
		}

		lg := d.ledgers[row.LedgerID]
		if lg == nil {
			lg = &LedgerGroup{
				LedgerID:  row.LedgerID,
				Ledger:    row.Ledger,
				IsParty:   row.IsParty == "Yes",
				LedgerAmt: ParseAmount(row.LedgerAmt),
			}
			d.ledgers[row.LedgerID] = lg
			d.ledgerOrder = append(d.ledgerOrder, row.LedgerID)
		}

		item := strings.TrimSpace(row.Item)
		if item == "" {
			continue
		}

		qty := ParseAmount(row.Qty)
		amt := ParseAmount(row.Amt)
		var rate *float64
		if qty != 0 {
			r := amt / qty
			rate = &r
		}
		lg.Items = append(lg.Items, ItemLine{Item: item, Qty: qty, Rate: rate, Amt: amt})
	}

	return order, drafts
}

// finalizeVouchers orders ledgers within each voucher, derives the voucher
// amount, and sorts the cards by date.
func finalizeVouchers(order []string, drafts map[string]*voucherDraft) []VoucherCard {
	cards := make([]VoucherCard, 0, len(order))
	for _, id := range order {
		d := drafts[id]

		ledgers := make([]LedgerGroup, 0, len(d.ledgerOrder))
		for _, lid := range d.ledgerOrder {
			ledgers = append(ledgers, *d.ledgers[lid])
		}
		sortLedgers(ledgers, d.card.Party)

		card := d.card
		card.Ledgers = ledgers
		card.VoucherAmt = deriveVoucherAmt(d.rawAmt, ledgers)
		cards = append(cards, card)
	}

	sortVouchers(cards)
	return cards
}

// sortLedgers applies the tie-break chain: the party ledger first, then
// ledgers that carry item lines, then by amount descending.
func sortLedgers(ledgers []LedgerGroup, party string) {
	sort.SliceStable(ledgers, func(i, j int) bool {
		a, b := ledgers[i], ledgers[j]

		aParty := a.IsParty || strings.EqualFold(a.Ledger, party)
		bParty := b.IsParty || strings.EqualFold(b.Ledger, party)
		if aParty != bParty {
			return aParty
		}

		aItems := len(a.Items) > 0
		bItems := len(b.Items) > 0
		if aItems != bItems {
			return aItems
		}

		return a.LedgerAmt > b.LedgerAmt
	})
}

// deriveVoucherAmt parses the source amount and falls back to the absolute
// ledger sum only when the source amount is exactly zero. A genuinely
// non-zero source amount, however small, is never overridden.
func deriveVoucherAmt(raw string, ledgers []LedgerGroup) float64 {
	amt := ParseAmount(raw)
	if amt != 0 {
		return amt
	}

	var sum float64
	for _, lg := range ledgers {
		sum += math.Abs(lg.LedgerAmt)
	}
	if sum > voucherAmtEpsilon {
		return sum
	}
	return 0
}

// sortVouchers orders cards ascending by calendar date. Dates that parse as
// neither canonical format are kept and compared lexicographically.
func sortVouchers(cards []VoucherCard) {
	sort.SliceStable(cards, func(i, j int) bool {
		da, aok := ParseDate(cards[i].Date)
		db, bok := ParseDate(cards[j].Date)
		if aok && bok {
			return da.Before(db.Time)
		}
		return cards[i].Date < cards[j].Date
	})
}
