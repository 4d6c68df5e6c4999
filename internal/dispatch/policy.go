package dispatch

import "github.com/TBosstradamus/pasha-vorschau-sub000/internal/model"

// HighRankThreshold 达到该警衔（含）即可同时占据一个车辆座位和一个指挥席位
const HighRankThreshold = model.RankSrSergeant

// IsExclusiveAcrossSeatsAndRoles 低于阈值的警员在座位与席位之间完全互斥
func IsExclusiveAcrossSeatsAndRoles(rank model.Rank) bool {
	return rank.Level() < HighRankThreshold.Level()
}
