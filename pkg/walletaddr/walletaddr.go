// Package walletaddr 提供钱包地址的格式校验。
// 地址是无状态的身份标识，大小写按原样保留参与比较。
package walletaddr

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// 接受0x前缀的十六进制地址（EVM风格）或32-44位的Base58地址。
var addressPattern = regexp.MustCompile(`^(0x[0-9a-fA-F]{40}|[1-9A-HJ-NP-Za-km-z]{32,44})$`)

// IsValid 判断给定字符串是否是可接受的钱包地址。
func IsValid(address string) bool {
	if address == "" || len(address) > 64 {
		return false
	}
	return addressPattern.MatchString(address)
}

// Validator 是可注册到gin binding引擎的校验函数，tag为"wallet"。
func Validator(fl validator.FieldLevel) bool {
	return IsValid(fl.Field().String())
}
