package errors

import "errors"

// ErrStorageUnavailable 持久化存储写入失败：变更只在当前标签页生效，不会同步到其他标签页
var ErrStorageUnavailable = errors.New("持久化存储不可用，变更仅在当前标签页生效")
