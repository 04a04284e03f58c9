package i18n

import (
	"fmt"
	"strings"

	"github.com/atelier-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// 站点语言常量（与 constants 保持一致）
const (
	LocaleZH = constants.LocaleZhCN
	LocaleTW = constants.LocaleZhTW
	LocaleEN = constants.LocaleEnUS
)

// DefaultLocale 默认语言
const DefaultLocale = LocaleZH

var messages = map[string]map[string]string{
	LocaleZH: {
		"error.bad_request":            "请求参数错误",
		"error.unauthorized":           "未登录或登录已过期",
		"error.forbidden":              "没有权限执行该操作",
		"error.not_found":              "资源不存在",
		"error.internal":               "系统繁忙，请稍后再试",
		"error.jwt_secret_missing":     "服务端未配置签名密钥",
		"error.auth_header_missing":    "缺少认证信息",
		"error.auth_header_invalid":    "认证信息格式错误",
		"error.token_invalid":          "无效的登录凭证",
		"error.token_revoked":          "登录凭证已失效，请重新登录",
		"error.rate_limited":           "请求过于频繁，请 %d 秒后再试",
		"error.rate_limit_unavailable": "限流服务不可用",
		"error.invalid_credentials":    "账号或密码错误",
		"error.invalid_password":       "原密码错误",
		"error.admin_id_invalid":       "管理员身份缺失",
		"error.admin_id_type_invalid":  "管理员身份异常",

		"error.password_min_length":      "密码长度不能少于 %d 位",
		"error.password_require_upper":   "密码必须包含大写字母",
		"error.password_require_lower":   "密码必须包含小写字母",
		"error.password_require_number":  "密码必须包含数字",
		"error.password_require_special": "密码必须包含特殊字符",

		"error.coupon_not_found":         "优惠码不存在",
		"error.coupon_inactive":          "优惠码已停用",
		"error.coupon_not_started":       "优惠码尚未生效",
		"error.coupon_expired":           "优惠码已过期",
		"error.coupon_usage_limit":       "优惠码已达使用上限",
		"error.coupon_min_amount":        "订单金额未达到使用门槛",
		"error.coupon_min_amount_detail": "订单金额需满 %s 方可使用该优惠码",
		"error.coupon_invalid":           "优惠码不可用",
		"error.coupon_code_exists":       "优惠码已存在",

		"error.order_not_found":      "订单不存在",
		"error.order_status_invalid": "订单状态不合法",
		"error.order_status_blocked": "不允许的状态变更",
		"error.order_empty_items":    "订单至少包含一个商品",

		"error.shipping_city_required": "请填写收货城市",
		"error.shipping_zone_invalid":  "运费区域配置不合法",

		"order.status.pending":    "待确认",
		"order.status.confirmed":  "已确认",
		"order.status.processing": "备货中",
		"order.status.shipped":    "已发货",
		"order.status.delivered":  "已送达",
		"order.status.cancelled":  "已取消",
		"order.status.returned":   "已退货",

		"email.order_status.subject": "订单状态更新：%s",
		"email.order_status.body":    "您的订单 %s 当前状态为：%s。\n\n订单金额：%s %s\n\n感谢您的惠顾。",
	},
	LocaleTW: {
		"error.bad_request":            "請求參數錯誤",
		"error.unauthorized":           "未登入或登入已過期",
		"error.forbidden":              "沒有權限執行該操作",
		"error.not_found":              "資源不存在",
		"error.internal":               "系統繁忙，請稍後再試",
		"error.jwt_secret_missing":     "服務端未配置簽名密鑰",
		"error.auth_header_missing":    "缺少認證資訊",
		"error.auth_header_invalid":    "認證資訊格式錯誤",
		"error.token_invalid":          "無效的登入憑證",
		"error.token_revoked":          "登入憑證已失效，請重新登入",
		"error.rate_limited":           "請求過於頻繁，請 %d 秒後再試",
		"error.rate_limit_unavailable": "限流服務不可用",
		"error.invalid_credentials":    "賬號或密碼錯誤",
		"error.invalid_password":       "原密碼錯誤",
		"error.admin_id_invalid":       "管理員身份缺失",
		"error.admin_id_type_invalid":  "管理員身份異常",

		"error.password_min_length":      "密碼長度不能少於 %d 位",
		"error.password_require_upper":   "密碼必須包含大寫字母",
		"error.password_require_lower":   "密碼必須包含小寫字母",
		"error.password_require_number":  "密碼必須包含數字",
		"error.password_require_special": "密碼必須包含特殊字符",

		"error.coupon_not_found":         "優惠碼不存在",
		"error.coupon_inactive":          "優惠碼已停用",
		"error.coupon_not_started":       "優惠碼尚未生效",
		"error.coupon_expired":           "優惠碼已過期",
		"error.coupon_usage_limit":       "優惠碼已達使用上限",
		"error.coupon_min_amount":        "訂單金額未達到使用門檻",
		"error.coupon_min_amount_detail": "訂單金額需滿 %s 方可使用該優惠碼",
		"error.coupon_invalid":           "優惠碼不可用",
		"error.coupon_code_exists":       "優惠碼已存在",

		"error.order_not_found":      "訂單不存在",
		"error.order_status_invalid": "訂單狀態不合法",
		"error.order_status_blocked": "不允許的狀態變更",
		"error.order_empty_items":    "訂單至少包含一個商品",

		"error.shipping_city_required": "請填寫收貨城市",
		"error.shipping_zone_invalid":  "運費區域配置不合法",

		"order.status.pending":    "待確認",
		"order.status.confirmed":  "已確認",
		"order.status.processing": "備貨中",
		"order.status.shipped":    "已發貨",
		"order.status.delivered":  "已送達",
		"order.status.cancelled":  "已取消",
		"order.status.returned":   "已退貨",

		"email.order_status.subject": "訂單狀態更新：%s",
		"email.order_status.body":    "您的訂單 %s 當前狀態為：%s。\n\n訂單金額：%s %s\n\n感謝您的惠顧。",
	},
	LocaleEN: {
		"error.bad_request":            "invalid request parameters",
		"error.unauthorized":           "not logged in or session expired",
		"error.forbidden":              "permission denied",
		"error.not_found":              "resource not found",
		"error.internal":               "service busy, please retry later",
		"error.jwt_secret_missing":     "server signing secret not configured",
		"error.auth_header_missing":    "missing authorization header",
		"error.auth_header_invalid":    "malformed authorization header",
		"error.token_invalid":          "invalid token",
		"error.token_revoked":          "token revoked, please login again",
		"error.rate_limited":           "too many requests, retry in %d seconds",
		"error.rate_limit_unavailable": "rate limiter unavailable",
		"error.invalid_credentials":    "invalid username or password",
		"error.invalid_password":       "incorrect current password",
		"error.admin_id_invalid":       "missing admin identity",
		"error.admin_id_type_invalid":  "malformed admin identity",

		"error.password_min_length":      "password must be at least %d characters",
		"error.password_require_upper":   "password must contain an uppercase letter",
		"error.password_require_lower":   "password must contain a lowercase letter",
		"error.password_require_number":  "password must contain a digit",
		"error.password_require_special": "password must contain a special character",

		"error.coupon_not_found":         "coupon code does not exist",
		"error.coupon_inactive":          "coupon is disabled",
		"error.coupon_not_started":       "coupon is not yet valid",
		"error.coupon_expired":           "coupon has expired",
		"error.coupon_usage_limit":       "coupon usage limit reached",
		"error.coupon_min_amount":        "order amount below coupon minimum",
		"error.coupon_min_amount_detail": "order amount must be at least %s to use this coupon",
		"error.coupon_invalid":           "coupon is not usable",
		"error.coupon_code_exists":       "coupon code already exists",

		"error.order_not_found":      "order not found",
		"error.order_status_invalid": "invalid order status",
		"error.order_status_blocked": "status transition not allowed",
		"error.order_empty_items":    "order must contain at least one item",

		"error.shipping_city_required": "destination city is required",
		"error.shipping_zone_invalid":  "invalid shipping zone configuration",

		"order.status.pending":    "Pending",
		"order.status.confirmed":  "Confirmed",
		"order.status.processing": "Processing",
		"order.status.shipped":    "Shipped",
		"order.status.delivered":  "Delivered",
		"order.status.cancelled":  "Cancelled",
		"order.status.returned":   "Returned",

		"email.order_status.subject": "Order status update: %s",
		"email.order_status.body":    "Your order %s is now: %s.\n\nOrder total: %s %s\n\nThank you for shopping with us.",
	},
}

// NormalizeLocale 归一化语言标识，未知语言回退默认值
func NormalizeLocale(locale string) string {
	normalized := strings.ToLower(strings.TrimSpace(locale))
	switch {
	case normalized == "":
		return DefaultLocale
	case strings.HasPrefix(normalized, "zh-tw"), strings.HasPrefix(normalized, "zh-hant"), strings.HasPrefix(normalized, "zh-hk"):
		return LocaleTW
	case strings.HasPrefix(normalized, "zh"):
		return LocaleZH
	case strings.HasPrefix(normalized, "en"):
		return LocaleEN
	default:
		return DefaultLocale
	}
}

// ResolveLocale 从请求解析语言（query > header）
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return NormalizeLocale(lang)
	}
	accept := c.GetHeader("Accept-Language")
	if accept == "" {
		return DefaultLocale
	}
	// 只取权重最高的首个语言标签
	first := accept
	if idx := strings.IndexAny(accept, ",;"); idx >= 0 {
		first = accept[:idx]
	}
	return NormalizeLocale(first)
}

// T 按语言查找文案，缺失时回退默认语言，再缺失返回 key 本身
func T(locale, key string) string {
	normalized := NormalizeLocale(locale)
	if table, ok := messages[normalized]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if normalized != DefaultLocale {
		if msg, ok := messages[DefaultLocale][key]; ok {
			return msg
		}
	}
	return key
}

// Sprintf 带参数的国际化文案
func Sprintf(locale, key string, args ...interface{}) string {
	format := T(locale, key)
	if len(args) == 0 {
		return format
	}
	return fmt.Sprintf(format, args...)
}
