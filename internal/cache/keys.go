package cache

import (
	"fmt"
	"net/url"
)

// 商品カタログのキー
const (
	ProductListPrefix     = "products:list:"
	ProductCategoryPrefix = "products:category:"
	ProductCategoriesKey  = "products:categories"
)

func ProductKey(id int64) string {
	return fmt.Sprintf("products:id:%d", id)
}

// 一覧の検索条件をそのままキーにする
func ProductListKey(params url.Values) string {
	return ProductListPrefix + params.Encode()
}

func ProductCategoryKey(category string) string {
	return ProductCategoryPrefix + url.QueryEscape(category)
}
