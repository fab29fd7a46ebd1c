package services

// AdminCapability decides whether a user may bypass interview locks.
// It is evaluated fresh on every operation.
type AdminCapability interface {
	IsAdmin(userID int64) bool
}

// AdminList is the static, config-sourced AdminCapability.
type AdminList struct {
	ids map[int64]struct{}
}

func NewAdminList(ids []int64) *AdminList {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &AdminList{ids: set}
}

func (a *AdminList) IsAdmin(userID int64) bool {
	_, ok := a.ids[userID]
	return ok
}
