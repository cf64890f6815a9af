package client

import (
	"context"
	"fmt"

	"github.com/wzbankapi/wzbank-go/pkg/fieldmap"
)

// Endpoint wrappers for the documented gateway services. Each wrapper
// validates required fields, builds the plain business body in the order
// the gateway documentation lists the fields, and delegates to Post.

// QueryAccountBalance queries the balance of an account.
//
// Gateway: V1/P01502/S01/queryeaccountbalance. Returns payAcctBal,
// curCode, curType, startDate, endDate, otherInfo, payAcctNo,
// payAcctUseBal.
func (c *Client) QueryAccountBalance(ctx context.Context, payAcctNo string) (*Response, error) {
	if payAcctNo == "" {
		return nil, fmt.Errorf("payAcctNo is required")
	}
	body := fieldmap.New()
	body.Set("payAcctNo", payAcctNo)
	return c.Post(ctx, "V1/P01502/S01/queryeaccountbalance", body)
}

// SingleTransferRequest carries the fields of a single transfer order.
type SingleTransferRequest struct {
	PayAcctNo   string // paying account, required
	TransAmt    string // amount, required
	PayAcctName string // paying account name, required
	RcvAcctNo   string // receiving account, required
	RcvAcctName string // receiving account name, required
	InBankNo    string // receiving bank number, required
	OrderNo     string // client order number, required
	Reserve2    string // required by the gateway contract
	CurCode     string // currency code, defaults to "1"
	CurType     string // currency type, defaults to "0"
	InBankName  string // optional
	Remark      string // optional
	Reserve1    string // optional
}

// SingleTransfer submits a single transfer order.
//
// Gateway: V1/P01506/S01/singletrans. Returns orderNo, bankSeqNo,
// workdate.
func (c *Client) SingleTransfer(ctx context.Context, req SingleTransferRequest) (*Response, error) {
	required := []struct{ name, value string }{
		{"payAcctNo", req.PayAcctNo},
		{"transAmt", req.TransAmt},
		{"payAcctName", req.PayAcctName},
		{"rcvAcctNo", req.RcvAcctNo},
		{"rcvAcctName", req.RcvAcctName},
		{"inbankno", req.InBankNo},
		{"orderNo", req.OrderNo},
		{"reserve2", req.Reserve2},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, fmt.Errorf("%s is required", f.name)
		}
	}
	if req.CurCode == "" {
		req.CurCode = "1"
	}
	if req.CurType == "" {
		req.CurType = "0"
	}

	body := fieldmap.New()
	body.Set("payAcctNo", req.PayAcctNo)
	body.Set("transAmt", req.TransAmt)
	body.Set("payAcctName", req.PayAcctName)
	body.Set("rcvAcctNo", req.RcvAcctNo)
	body.Set("rcvAcctName", req.RcvAcctName)
	body.Set("inbankno", req.InBankNo)
	body.Set("curCode", req.CurCode)
	body.Set("curType", req.CurType)
	body.Set("orderNo", req.OrderNo)
	body.Set("reserve2", req.Reserve2)
	if req.InBankName != "" {
		body.Set("inbankname", req.InBankName)
	}
	if req.Remark != "" {
		body.Set("remark", req.Remark)
	}
	if req.Reserve1 != "" {
		body.Set("reserve1", req.Reserve1)
	}
	return c.Post(ctx, "V1/P01506/S01/singletrans", body)
}

// QuerySingleTransferResult queries the state of a submitted transfer.
//
// Gateway: V1/P01507/S01/selsingletrans.
func (c *Client) QuerySingleTransferResult(ctx context.Context, body *fieldmap.Map) (*Response, error) {
	return c.Post(ctx, "V1/P01507/S01/selsingletrans", body)
}

// BatchTransfer submits a batch of transfer orders.
//
// Gateway: V1/P01508/S01/batchtrans.
func (c *Client) BatchTransfer(ctx context.Context, body *fieldmap.Map) (*Response, error) {
	return c.Post(ctx, "V1/P01508/S01/batchtrans", body)
}

// QueryBatchTransferResult queries the state of a submitted batch.
//
// Gateway: V1/P01509/S01/selbatchtrans.
func (c *Client) QueryBatchTransferResult(ctx context.Context, payAcctNo, batchNo string) (*Response, error) {
	if payAcctNo == "" {
		return nil, fmt.Errorf("payAcctNo is required")
	}
	if batchNo == "" {
		return nil, fmt.Errorf("batchNo is required")
	}
	body := fieldmap.New()
	body.Set("payAcctNo", payAcctNo)
	body.Set("batchNo", batchNo)
	return c.Post(ctx, "V1/P01509/S01/selbatchtrans", body)
}

// QueryHourDetails queries transaction details within a date range.
//
// Gateway: V1/P01512/S01/queryhourdetails.
func (c *Client) QueryHourDetails(ctx context.Context, payAcctNo, startDate, endDate string) (*Response, error) {
	return c.postDateRange(ctx, "V1/P01512/S01/queryhourdetails", payAcctNo, startDate, endDate)
}

// DetailsReceiptRequest identifies a transaction receipt to download.
type DetailsReceiptRequest struct {
	AcctNo      string // required
	TransDate   string // required
	TransSeqNo  string // required
	TransOperNo string // optional
	TransBrNo   string // optional
}

// DownloadDetailsReceipt downloads the electronic receipt of a transaction.
//
// Gateway: V1/P01513/S01/detailsreceipt.
func (c *Client) DownloadDetailsReceipt(ctx context.Context, req DetailsReceiptRequest) (*Response, error) {
	if req.AcctNo == "" {
		return nil, fmt.Errorf("acctNo is required")
	}
	if req.TransDate == "" {
		return nil, fmt.Errorf("transDate is required")
	}
	if req.TransSeqNo == "" {
		return nil, fmt.Errorf("transSeqno is required")
	}

	body := fieldmap.New()
	body.Set("acctNo", req.AcctNo)
	body.Set("transDate", req.TransDate)
	body.Set("transSeqno", req.TransSeqNo)
	if req.TransOperNo != "" {
		body.Set("transOperNo", req.TransOperNo)
	}
	if req.TransBrNo != "" {
		body.Set("transBrno", req.TransBrNo)
	}
	return c.Post(ctx, "V1/P01513/S01/detailsreceipt", body)
}

// CheckAccount runs reconciliation over a date range.
//
// Gateway: V1/P01518/S01/checkAcct.
func (c *Client) CheckAccount(ctx context.Context, payAcctNo, startDate, endDate string) (*Response, error) {
	return c.postDateRange(ctx, "V1/P01518/S01/checkAcct", payAcctNo, startDate, endDate)
}

// UpdateCheckResult reports a reconciliation result back to the gateway.
//
// Gateway: V1/P01519/S01/checkResultUpdate.
func (c *Client) UpdateCheckResult(ctx context.Context, body *fieldmap.Map) (*Response, error) {
	return c.Post(ctx, "V1/P01519/S01/checkResultUpdate", body)
}

// QuerySubAccountBalance queries the balances of sub-accounts.
//
// Gateway: V1/P01520/S01/queryeSubacctBalance.
func (c *Client) QuerySubAccountBalance(ctx context.Context, payAcctNo string) (*Response, error) {
	if payAcctNo == "" {
		return nil, fmt.Errorf("payAcctNo is required")
	}
	body := fieldmap.New()
	body.Set("payAcctNo", payAcctNo)
	return c.Post(ctx, "V1/P01520/S01/queryeSubacctBalance", body)
}

// QueryHourDetails2 queries transaction details, second variant.
//
// Gateway: V1/P01522/S01/queryhourdetails2.
func (c *Client) QueryHourDetails2(ctx context.Context, payAcctNo, startDate, endDate string) (*Response, error) {
	return c.postDateRange(ctx, "V1/P01522/S01/queryhourdetails2", payAcctNo, startDate, endDate)
}

// QueryReceiptDetails queries available receipt details.
//
// Gateway: V1/P01523/S01/queryreceiptdetails.
func (c *Client) QueryReceiptDetails(ctx context.Context, body *fieldmap.Map) (*Response, error) {
	return c.Post(ctx, "V1/P01523/S01/queryreceiptdetails", body)
}

// QueryBankInfos looks up clearing bank information. queryType "0" searches
// by bank name, "1" by bank number.
//
// Gateway: V1/P01524/S01/querybankinfos.
func (c *Client) QueryBankInfos(ctx context.Context, queryType, bankName, bankNo string) (*Response, error) {
	body := fieldmap.New()
	body.Set("type", queryType)
	switch queryType {
	case "0":
		if bankName == "" {
			return nil, fmt.Errorf("type=0 requires bankName")
		}
		body.Set("bankName", bankName)
	case "1":
		if bankNo == "" {
			return nil, fmt.Errorf("type=1 requires bankNo")
		}
		body.Set("bankNo", bankNo)
	default:
		return nil, fmt.Errorf("type must be \"0\" or \"1\"")
	}
	return c.Post(ctx, "V1/P01524/S01/querybankinfos", body)
}

// QueryCertExpiry queries the expiry date of the account's certificate.
//
// Gateway: V1/P01525/S01/queryCertExpiry.
func (c *Client) QueryCertExpiry(ctx context.Context, payAcctNo string) (*Response, error) {
	if payAcctNo == "" {
		return nil, fmt.Errorf("payAcctNo is required")
	}
	body := fieldmap.New()
	body.Set("payAcctNo", payAcctNo)
	return c.Post(ctx, "V1/P01525/S01/queryCertExpiry", body)
}

func (c *Client) postDateRange(ctx context.Context, path, payAcctNo, startDate, endDate string) (*Response, error) {
	if payAcctNo == "" {
		return nil, fmt.Errorf("payAcctNo is required")
	}
	if startDate == "" {
		return nil, fmt.Errorf("startDate is required")
	}
	if endDate == "" {
		return nil, fmt.Errorf("endDate is required")
	}
	body := fieldmap.New()
	body.Set("payAcctNo", payAcctNo)
	body.Set("startDate", startDate)
	body.Set("endDate", endDate)
	return c.Post(ctx, path, body)
}
