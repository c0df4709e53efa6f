package mongo

import (
	"time"
)

// 预警类型
const (
	AlertTypeGrowth     = "growth"
	AlertTypeDrop       = "drop"
	AlertTypeTopUser    = "top-user"
	AlertTypeTopCompany = "top-company"
	AlertTypeAnomaly    = "anomaly"
	AlertTypeMilestone  = "milestone"
)

// 预警优先级
const (
	AlertPriorityLow      = "low"
	AlertPriorityMedium   = "medium"
	AlertPriorityHigh     = "high"
	AlertPriorityCritical = "critical"
)

// AlertMetadata 预警附加信息。
// PreviousValue / Percentage 当前为合成值（固定比例），非真实历史对比。
type AlertMetadata struct {
	EntityName    string  `bson:"entity_name,omitempty" json:"entityName"`
	Value         float64 `bson:"value" json:"value"`
	PreviousValue float64 `bson:"previous_value,omitempty" json:"previousValue"`
	Percentage    float64 `bson:"percentage,omitempty" json:"percentage"`
	CommunityID   string  `bson:"community_id,omitempty" json:"communityId"`
}

// Alert 预警记录。写入后不再重算，仅可标记已读。
// ID 为合成主键 "{type}-{epochMillis}"。
type Alert struct {
	ID          string        `bson:"_id" json:"id"`
	Type        string        `bson:"type" json:"type"`
	Priority    string        `bson:"priority" json:"priority"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Metadata    AlertMetadata `bson:"metadata" json:"metadata"`
	Dismissed   bool          `bson:"dismissed,omitempty" json:"dismissed"`
	CreatedAt   time.Time     `bson:"created_at" json:"createdAt"`
}
