package models

// HistoryItem is one persisted query/response pair. Rows are never updated
// once written; the table is only appended to or wiped.
type HistoryItem struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestText  string `gorm:"type:text;not null" json:"requestText"`
	ResponseText string `gorm:"type:text;not null" json:"responseText"`
	Timestamp    int64  `gorm:"not null;index:idx_history_timestamp" json:"timestamp"` // epoch millis
}
