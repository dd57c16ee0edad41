package api

// RelevanceGate 在搜尋SQL的WHERE子句中附加額外的相關性條件
// 將資料庫端的AI判斷視為可抽換的能力，而不是寫死的行為
type RelevanceGate interface {
	// Predicate 返回WHERE子句片段與對應的參數；
	// 空字串代表不附加任何條件
	Predicate(query string) (string, []any)
}

// AIGate 透過資料庫內建的 ai.if 函式，詢問模型物品簡介
// 與查詢字串的語意相關性是否至少達到60%
type AIGate struct {
	// ModelID 是 ai.if 使用的模型名稱
	ModelID string
}

func (g AIGate) Predicate(query string) (string, []any) {
	// 提示詞尾段本身含有問號，會被佔位符替換誤認，
	// 所以尾段和查詢字串一樣以參數綁定，SQL字面值中不能出現問號
	predicate := `ai.if(` +
		`prompt => 'Does this text: "' || bio || '" match the user request: "' || ? || ?, ` +
		`model_id => ?)`
	return predicate, []any{query, `", at least 60%? " `, g.ModelID}
}

// AcceptAllGate 不做額外過濾，只依向量距離排序
// 供資料庫沒有安裝AI擴充功能的部署使用
type AcceptAllGate struct{}

func (AcceptAllGate) Predicate(string) (string, []any) {
	return "", nil
}
