package model

// Rank 警衔（有序枚举，位置越靠后级别越高）
type Rank string

const (
	RankPoliceOfficerI   Rank = "Police Officer I"
	RankPoliceOfficerII  Rank = "Police Officer II"
	RankPoliceOfficerIII Rank = "Police Officer III"
	RankSeniorLead       Rank = "Senior Lead Officer"
	RankSergeant         Rank = "Sergeant"
	RankSrSergeant       Rank = "Sr. Sergeant"
	RankLieutenant       Rank = "Lieutenant"
	RankCaptain          Rank = "Captain"
	RankCommander        Rank = "Commander"
	RankDeputyChief      Rank = "Deputy Chief"
	RankAssistantChief   Rank = "Assistant Chief"
	RankChiefOfPolice    Rank = "Chief of Police"
)

var rankOrder = []Rank{
	RankPoliceOfficerI,
	RankPoliceOfficerII,
	RankPoliceOfficerIII,
	RankSeniorLead,
	RankSergeant,
	RankSrSergeant,
	RankLieutenant,
	RankCaptain,
	RankCommander,
	RankDeputyChief,
	RankAssistantChief,
	RankChiefOfPolice,
}

// Ranks 按级别从低到高返回全部警衔
func Ranks() []Rank {
	out := make([]Rank, len(rankOrder))
	copy(out, rankOrder)
	return out
}

// Level 警衔在枚举中的位置；未知警衔返回 -1（按最低处理）
func (r Rank) Level() int {
	for i, rk := range rankOrder {
		if rk == r {
			return i
		}
	}
	return -1
}

// Valid 是否为已知警衔
func (r Rank) Valid() bool {
	return r.Level() >= 0
}

// AtLeast 是否不低于 other
func (r Rank) AtLeast(other Rank) bool {
	return r.Level() >= other.Level()
}

// DepartmentRole 部门角色标签（无序，可多选）
type DepartmentRole string

const (
	RoleLSPD            DepartmentRole = "LSPD"
	RoleAdmin           DepartmentRole = "Admin"
	RoleFuhrparkmanager DepartmentRole = "Fuhrparkmanager"
	RoleHR              DepartmentRole = "HR"
	RoleAusbilder       DepartmentRole = "Ausbilder"
	RoleDispatch        DepartmentRole = "Dispatch"
)

// Gender 性别
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)
