package domain

// Actor recorded when a ledger entry is written without an identity.
const SystemActor = "System"

// TimestampLayout is fixed width so change_date sorts lexicographically.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// HistoryEntry records one change of a product's stock. Entries are never edited.
type HistoryEntry struct {
	ID          int64  `db:"id" json:"id"`
	ProductID   int64  `db:"product_id" json:"product_id"`
	OldQuantity int    `db:"old_quantity" json:"old_quantity"`
	NewQuantity int    `db:"new_quantity" json:"new_quantity"`
	ChangeDate  string `db:"change_date" json:"change_date"`
	Actor       string `db:"user_info" json:"user_info"`
}
