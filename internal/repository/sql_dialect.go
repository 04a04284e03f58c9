package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// dbDialectName 获取数据库方言名称，默认按 sqlite 处理。
func dbDialectName(db *gorm.DB) string {
	if db == nil || db.Dialector == nil {
		return "sqlite"
	}
	name := strings.ToLower(strings.TrimSpace(db.Dialector.Name()))
	if name == "" {
		return "sqlite"
	}
	return name
}

// jsonArrayContainsExpr 构建 JSON 数组包含判断表达式，兼容 sqlite 与 postgres。
// 列值形如 ["上海","杭州"]，表达式带一个字符串占位参数。
func jsonArrayContainsExpr(db *gorm.DB, column string) string {
	return jsonArrayContainsExprByDialect(dbDialectName(db), column)
}

func jsonArrayContainsExprByDialect(dialect, column string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		// postgres 统一转 jsonb 后用 @> 做元素包含判断
		return fmt.Sprintf("(%s::jsonb @> to_jsonb(?::text))", column)
	default:
		// sqlite 展开数组逐元素比较
		return fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = ?)", column)
	}
}

// likeExpr 构建单列模糊匹配条件，postgres 下使用不区分大小写的 ILIKE。
func likeExpr(db *gorm.DB, column string) string {
	return likeExprByDialect(dbDialectName(db), column)
}

func likeExprByDialect(dialect, column string) string {
	return fmt.Sprintf("%s %s ?", column, likeOperatorByDialect(dialect))
}

func likeOperatorByDialect(dialect string) string {
	switch strings.ToLower(strings.TrimSpace(dialect)) {
	case "postgres", "postgresql":
		return "ILIKE"
	default:
		return "LIKE"
	}
}
