package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为MySQL唯一索引冲突(错误码1062)
//
// 两处唯一索引依赖这个判断:
// - users.email:重复注册转换成邮箱已存在错误
// - user_book_relations(user_id,book_id):并发首次触达同一本书时,
//   两个请求同时走到插入,输掉的那个靠这里识别冲突后重读已有记录
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// 部分驱动路径不会翻译成gorm.ErrDuplicatedKey,退回到错误文本判断
	return strings.Contains(err.Error(), "Duplicate entry")
}
