package entity

// WorkStation status values
const (
	StationStatusIdle        = "idle"
	StationStatusActive      = "active"
	StationStatusMaintenance = "maintenance"
	StationStatusError       = "error"
)

// StationStatuses lists every valid work station status.
var StationStatuses = []string{
	StationStatusIdle,
	StationStatusActive,
	StationStatusMaintenance,
	StationStatusError,
}

// ValidStationStatus reports whether s is a known station status.
func ValidStationStatus(s string) bool {
	for _, v := range StationStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// WorkStation is a production resource that can hold one assigned order.
type WorkStation struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"size:64;not null;uniqueIndex"`
	Location string `json:"location" gorm:"size:128"`
	Status   string `json:"status" gorm:"size:20;not null;default:idle"`
	// FK so a concurrent order delete cannot leave a dangling assignment
	CurrentOrderID *uint            `json:"current_order_id" gorm:"index"`
	CurrentOrder   *ProductionOrder `json:"-" gorm:"foreignKey:CurrentOrderID;constraint:OnDelete:RESTRICT"`
}

func (WorkStation) TableName() string {
	return "workstations"
}
