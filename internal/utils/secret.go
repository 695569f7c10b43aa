package utils

import "crypto/subtle"

// SecureCompare 常量时间比较两个密钥
// 推送密钥(bskey)校验用,避免逐字节短路比较泄露前缀信息
func SecureCompare(given, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(expected)) == 1
}
