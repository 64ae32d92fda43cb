package dto

type StatsQuery struct {
	Days int `query:"days"`
}
