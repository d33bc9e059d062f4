// Package export renders list results as CSV downloads.
package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"crm/internal/domain/entity"
	"crm/internal/usecase"

	"github.com/pkg/errors"
)

const timeLayout = "2006-01-02 15:04:05"

// utf8BOM lets spreadsheet tools detect the encoding of Chinese headers.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// FileName builds an attachment name such as customers_20240520.csv.
func FileName(prefix string, now time.Time) string {
	return prefix + "_" + now.Format("20060102") + ".csv"
}

// Customers writes one row per customer.
func Customers(w io.Writer, customers []*usecase.CustomerView) error {
	header := []string{
		"客户名称", "客户性质", "重要程度", "应用领域", "客户进展", "地址", "联系人", "联系电话",
		"产品需求", "年需求量", "关联销售", "关联代理商", "负责人", "备注", "最后更新时间",
	}

	rows := make([][]string, 0, len(customers))
	for _, v := range customers {
		rows = append(rows, []string{
			v.Name,
			string(v.Nature),
			string(v.Importance),
			v.ApplicationField,
			string(v.Progress),
			v.Address,
			v.ContactName,
			v.ContactPhone,
			strings.Join(v.ProductNeeds, ";"),
			strconv.FormatInt(v.AnnualDemand, 10),
			v.RelatedSalesName,
			v.RelatedAgentName,
			v.OwnerName,
			v.Remark,
			formatTime(v.LastUpdateTime),
		})
	}

	return write(w, header, rows)
}

// Products writes model, package and stock followed by quantity and price of every tier.
func Products(w io.Writer, products []*entity.Product) error {
	header := []string{"型号", "封装", "库存"}
	for i := 1; i <= entity.PriceTierCount; i++ {
		n := strconv.Itoa(i)
		header = append(header, "阶梯"+n+"数量", "阶梯"+n+"价格")
	}
	header = append(header, "备注")

	rows := make([][]string, 0, len(products))
	for _, p := range products {
		row := make([]string, 0, len(header))
		row = append(row, p.ModelName, p.PackageType, strconv.FormatInt(p.Stock, 10))
		for i := range entity.PriceTierCount {
			if i < len(p.Pricing) {
				row = append(row, strconv.FormatInt(p.Pricing[i].Quantity, 10), p.Pricing[i].Price.String())
			} else {
				row = append(row, "", "")
			}
		}
		row = append(row, p.Remark)
		rows = append(rows, row)
	}

	return write(w, header, rows)
}

// InventoryRecords writes the stock audit log.
func InventoryRecords(w io.Writer, records []*usecase.InventoryRecordView) error {
	header := []string{"操作时间", "型号", "封装", "操作类型", "数量", "操作前库存", "操作后库存", "操作人", "备注", "操作编号"}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			formatTime(r.OperationTime),
			r.ModelName,
			r.PackageType,
			operationLabel(r.OperationType),
			strconv.FormatInt(r.Quantity, 10),
			strconv.FormatInt(r.StockBefore, 10),
			strconv.FormatInt(r.StockAfter, 10),
			r.OperatorName,
			r.Remark,
			r.OperationID,
		})
	}

	return write(w, header, rows)
}

func write(w io.Writer, header []string, rows [][]string) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return errors.Wrap(err, "write bom")
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return errors.Wrap(err, "write header")
	}
	if err := cw.WriteAll(rows); err != nil {
		return errors.Wrap(err, "write rows")
	}

	return nil
}

func operationLabel(t entity.StockOperationType) string {
	switch t {
	case entity.StockIn:
		return "入库"
	case entity.StockOut:
		return "出库"
	default:
		return string(t)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(timeLayout)
}
