package record

import "time"

// Record 持久化存储中的一条键值记录，值为整个集合的 JSON
type Record struct {
	Key       string    `gorm:"column:key;type:varchar(191);primaryKey"`
	Value     []byte    `gorm:"column:value;type:jsonb;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz;autoUpdateTime"`
}

func (Record) TableName() string {
	return "records"
}
