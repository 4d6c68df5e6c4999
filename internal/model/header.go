package model

// HeaderRole 指挥席位（与车辆座位相互独立）
type HeaderRole string

const (
	HeaderDispatch   HeaderRole = "dispatch"
	HeaderCoDispatch HeaderRole = "co-dispatch"
	HeaderAir1       HeaderRole = "air1"
	HeaderAir2       HeaderRole = "air2"
)

var headerRoleOrder = []HeaderRole{HeaderDispatch, HeaderCoDispatch, HeaderAir1, HeaderAir2}

// AllHeaderRoles 按固定顺序返回四个指挥席位
func AllHeaderRoles() []HeaderRole {
	return append([]HeaderRole(nil), headerRoleOrder...)
}

// Valid 是否为已知席位
func (r HeaderRole) Valid() bool {
	for _, h := range headerRoleOrder {
		if h == r {
			return true
		}
	}
	return false
}

// HeaderRoles 席位 → 警员 ID，空字符串表示空缺
type HeaderRoles map[HeaderRole]string

// NewHeaderRoles 四个席位全部空缺
func NewHeaderRoles() HeaderRoles {
	h := make(HeaderRoles, len(headerRoleOrder))
	for _, r := range headerRoleOrder {
		h[r] = ""
	}
	return h
}

// Clone 深拷贝，并补齐缺失的席位键
func (h HeaderRoles) Clone() HeaderRoles {
	out := NewHeaderRoles()
	for k, v := range h {
		if k.Valid() {
			out[k] = v
		}
	}
	return out
}

// RoleOf 返回警员占据的席位
func (h HeaderRoles) RoleOf(officerID string) (HeaderRole, bool) {
	if officerID == "" {
		return "", false
	}
	for _, r := range headerRoleOrder {
		if h[r] == officerID {
			return r, true
		}
	}
	return "", false
}
