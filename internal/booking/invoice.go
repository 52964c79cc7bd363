package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// 发票号格式：INV-<年份>-<5位序号>，序号跨年份全局单调递增。
const invoicePrefix = "INV"

// FormatInvoiceNumber 生成发票号，例如 INV-2025-00042。
func FormatInvoiceNumber(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%05d", invoicePrefix, year, seq)
}

// NeedsInvoice 该预订本次落库是否要分配发票号。
// 只有首次进入 confirmed（发票号为空）时开票；接受时直接进 active 的
// 不开票，已有发票号的不重开。
func NeedsInvoice(b *Booking) bool {
	return b != nil && b.Status == StatusConfirmed && b.InvoiceNumber == ""
}

// ParseInvoiceSequence 从发票号里解析序号段。
// 历史数据可能存在格式不合法的发票号：一律按 0 处理，绝不因此中断开票。
func ParseInvoiceSequence(invoiceNumber string) int64 {
	parts := strings.Split(invoiceNumber, "-")
	if len(parts) != 3 || parts[0] != invoicePrefix {
		return 0
	}
	seq, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil || seq < 0 {
		return 0
	}
	return seq
}

// MaxInvoiceSequence 历史发票号中的最大序号（下一个号 = max + 1，无历史则从 1 开始）。
func MaxInvoiceSequence(numbers []string) int64 {
	var max int64
	for _, n := range numbers {
		if seq := ParseInvoiceSequence(n); seq > max {
			max = seq
		}
	}
	return max
}
