package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIGatePredicate(t *testing.T) {
	gate := AIGate{ModelID: "gemini-3-flash-preview"}

	t.Run("條件使用ai.if函式", func(t *testing.T) {
		predicate, args := gate.Predicate("a cozy chair")
		assert.Contains(t, predicate, "ai.if(")
		assert.Contains(t, predicate, "model_id =>")
		assert.Equal(t, []any{"a cozy chair", `", at least 60%? " `, "gemini-3-flash-preview"}, args)
	})

	t.Run("SQL片段中的問號只能是綁定佔位符", func(t *testing.T) {
		// 提示詞尾段的問號若出現在SQL字面值中，
		// 會吃掉一個綁定參數並讓後續參數全部錯位
		predicate, args := gate.Predicate("a cozy chair")
		assert.Equal(t, len(args), strings.Count(predicate, "?"))
	})

	t.Run("查詢字串只透過參數傳遞", func(t *testing.T) {
		predicate, _ := gate.Predicate(`"; DROP TABLE items; --`)
		assert.NotContains(t, predicate, "DROP TABLE")
	})
}

func TestAcceptAllGatePredicate(t *testing.T) {
	t.Run("不附加任何條件", func(t *testing.T) {
		predicate, args := AcceptAllGate{}.Predicate("anything")
		assert.Empty(t, predicate)
		assert.Nil(t, args)
	})
}
