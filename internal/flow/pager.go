package flow

import "github.com/Freeeeeet/parkflow_bot/internal/keyboard"

// PageSize число записей на странице
const PageSize = 5

// TotalPages возвращает число страниц для count записей
func TotalPages(count int) int {
	if count <= 0 {
		return 0
	}
	return (count + PageSize - 1) / PageSize
}

// ClampPage приводит номер страницы к [1, total]
func ClampPage(page, total int) int {
	if total < 1 || page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// PageBounds возвращает границы среза для страницы
func PageBounds(page, count int) (start, end int) {
	page = ClampPage(page, TotalPages(count))
	start = (page - 1) * PageSize
	if start > count {
		start = count
	}
	end = min(start+PageSize, count)
	return start, end
}

// turnPage возвращает новую страницу для кнопки листания; выход за границы ничего не меняет
func turnPage(page, total int, text string) int {
	switch text {
	case keyboard.BtnPrev:
		page--
	case keyboard.BtnNext:
		page++
	}
	return ClampPage(page, total)
}
