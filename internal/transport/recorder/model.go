package recorder

import (
	"time"

	"gorm.io/datatypes"
)

// MessageRecord is one published message.
type MessageRecord struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	Node      string         `gorm:"size:128;index" json:"node"`
	Topic     string         `gorm:"size:128;index" json:"topic"`
	Type      string         `gorm:"size:32" json:"type"`
	Stamp     time.Time      `json:"stamp"`
	Payload   datatypes.JSON `json:"payload"`
}

func (*MessageRecord) TableName() string {
	return "messages"
}

// MarkerRecord is one marker of a recorded marker array, flattened for
// querying by id, shape or position.
type MarkerRecord struct {
	ID        uint    `gorm:"primarykey" json:"id"`
	MessageID uint    `gorm:"index" json:"messageId"`
	Topic     string  `gorm:"size:128;index" json:"topic"`
	MarkerID  int     `json:"markerId"`
	Type      int     `json:"type"`
	Action    int     `json:"action"`
	FrameID   string  `gorm:"size:64" json:"frameId"`
	R         float32 `json:"r"`
	G         float32 `json:"g"`
	B         float32 `json:"b"`
	A         float32 `json:"a"`
	Geometry  string  `json:"geometry"` // WKT, empty for directives
}

func (*MarkerRecord) TableName() string {
	return "markers"
}

// Models lists every table the recorder migrates.
var Models = []any{
	&MessageRecord{},
	&MarkerRecord{},
}
