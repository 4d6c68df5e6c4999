// Package persistence 快照的加载、迁移、序列化
package persistence

// 持久化存储键
const (
	// KeyState 当前格式：{"appState": <快照，不含 currentUser>}
	KeyState = "dispatchConsole.state"
	// KeyLegacyState 旧版完整快照，读取迁移后删除
	KeyLegacyState = "dispatchConsole.legacyState"
	// KeyTimeClock 旧版独立打卡记录，合并后删除
	KeyTimeClock = "dispatchConsole.timeClock"
	// KeyRememberedCredentials 记住登录时保存的明文凭据
	KeyRememberedCredentials = "dispatchConsole.rememberedCredentials"
)
