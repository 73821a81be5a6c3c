package integration

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 图书模块集成测试
//
// 测试场景:
// 1. 图书创建(需要认证)
// 2. 列表查询:价格过滤、搜索、排序、分页(公开接口)
// 3. 详情查询带派生字段
// 4. 更新的权限策略(owner/staff/其他人)

// TestBookCreate 测试创建图书
func TestBookCreate(t *testing.T) {
	_, token := RegisterTestUser(t, "book_creator")

	t.Run("正常创建", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
			"name":        "Go语言实战",
			"price":       "89.00",
			"author_name": "William Kennedy",
		}, token)

		require.Equal(t, 0, resp.Code, "创建应该成功: %s", resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.NotZero(t, data.ID)
		assert.Equal(t, "89.00", data.Price, "价格应该是两位小数字符串")
		assert.Equal(t, int64(0), data.LikesCount, "新书点赞数为0")
		assert.Nil(t, data.Rating, "新书评分为null")

		t.Logf("✓ 创建成功, 图书ID: %d", data.ID)
	})

	t.Run("未登录不能创建", func(t *testing.T) {
		resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
			"name":        "匿名的书",
			"price":       "25.00",
			"author_name": "作者",
		}, "")
		assert.NotEqual(t, 0, resp.Code, "未登录应该被拒绝")
	})

	t.Run("价格越界", func(t *testing.T) {
		for _, price := range []string{"0.00", "100000.00", "-1.00"} {
			resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
				"name":        "价格非法的书",
				"price":       price,
				"author_name": "作者",
			}, token)
			assert.NotEqual(t, 0, resp.Code, "价格 %s 应该被拒绝", price)
		}
	})
}

// TestBookList 测试图书列表
func TestBookList(t *testing.T) {
	_, token := RegisterTestUser(t, "book_lister")

	// 准备两本价格不同的书
	cheap := CreateTestBook(t, token, "便宜的书", "10.00")
	expensive := CreateTestBook(t, token, "贵的书", "99.00")

	t.Run("匿名可查询", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books", "")
		require.Equal(t, 0, resp.Code)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.GreaterOrEqual(t, data.Total, int64(2))
	})

	t.Run("价格精确过滤", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?price=10.00&search=便宜的书", "")
		require.Equal(t, 0, resp.Code)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		for _, b := range data.List {
			assert.Equal(t, "10.00", b.Price)
		}
	})

	t.Run("搜索书名", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?search=贵的书", "")
		require.Equal(t, 0, resp.Code)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.NotEmpty(t, data.List)
		found := false
		for _, b := range data.List {
			if b.ID == expensive.ID {
				found = true
			}
		}
		assert.True(t, found, "搜索结果应包含目标图书")
	})

	t.Run("价格排序", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?ordering=price&page_size=100", "")
		require.Equal(t, 0, resp.Code)

		var data BookListData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		require.NotEmpty(t, data.List)

		// 升序:便宜的书应该排在贵的书前面
		posCheap, posExpensive := -1, -1
		for i, b := range data.List {
			if b.ID == cheap.ID {
				posCheap = i
			}
			if b.ID == expensive.ID {
				posExpensive = i
			}
		}
		if posCheap >= 0 && posExpensive >= 0 {
			assert.Less(t, posCheap, posExpensive, "price升序")
		}
	})

	t.Run("非法排序字段", func(t *testing.T) {
		resp := GetJSON(t, BaseURL+"/books?ordering=name", "")
		assert.NotEqual(t, 0, resp.Code, "白名单外的排序字段应该被拒绝")
	})
}

// TestBookUpdate 测试更新图书的权限策略
func TestBookUpdate(t *testing.T) {
	_, ownerToken := RegisterTestUser(t, "book_owner")
	_, otherToken := RegisterTestUser(t, "book_other")

	b := CreateTestBook(t, ownerToken, "待更新的书", "25.00")
	url := fmt.Sprintf("%s/books/%d", BaseURL, b.ID)

	t.Run("owner可以更新", func(t *testing.T) {
		resp := PatchJSON(t, url, map[string]interface{}{"price": "39.00"}, ownerToken)
		require.Equal(t, 0, resp.Code, "owner更新失败: %s", resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "39.00", data.Price)
		assert.Equal(t, "待更新的书", data.Name, "未提交的字段保持原值")
	})

	t.Run("其他用户被拒绝", func(t *testing.T) {
		resp := PatchJSON(t, url, map[string]interface{}{"name": "篡改"}, otherToken)
		assert.NotEqual(t, 0, resp.Code)
		assert.Equal(t, "You do not have permission to perform this action.", resp.Message, "403文案是固定的")

		// 记录没有被改动
		getResp := GetJSON(t, url, "")
		var data BookData
		require.NoError(t, json.Unmarshal(getResp.Data, &data))
		assert.Equal(t, "待更新的书", data.Name)

		t.Logf("✓ 非owner正确被拒绝")
	})

	t.Run("未登录被拒绝", func(t *testing.T) {
		resp := PatchJSON(t, url, map[string]interface{}{"name": "匿名篡改"}, "")
		assert.NotEqual(t, 0, resp.Code)
	})

	t.Run("PUT全量替换", func(t *testing.T) {
		resp := PutJSON(t, url, map[string]interface{}{
			"name":        "替换后的书",
			"price":       "49.00",
			"author_name": "替换后的作者",
		}, ownerToken)
		require.Equal(t, 0, resp.Code, "PUT更新失败: %s", resp.Message)

		var data BookData
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, "替换后的书", data.Name)
		assert.Equal(t, "49.00", data.Price)
		assert.Equal(t, "替换后的作者", data.AuthorName)
	})

	t.Run("PUT缺字段被拒绝", func(t *testing.T) {
		resp := PutJSON(t, url, map[string]interface{}{"name": "只有书名"}, ownerToken)
		assert.NotEqual(t, 0, resp.Code, "PUT要求三个字段都必填")
	})
}
