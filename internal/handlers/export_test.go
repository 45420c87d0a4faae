package handlers

import (
	"bytes"
	"encoding/csv"
	"net/http"

	"github.com/xuri/excelize/v2"
)

func (suite *HandlersTestSuite) TestExport_CSV() {
	token := suite.signup("alice")
	suite.do(http.MethodPost, "/api/data/transaction", map[string]any{
		"amount": 12.5, "category": "food", "description": "lunch, late", "type": "EXPENSE",
	}, bearer(token))

	w := suite.do(http.MethodGet, "/api/data/export", nil, bearer(token))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), ".csv")

	records, err := csv.NewReader(w.Body).ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal(exportHeader, records[0])
	suite.Equal("EXPENSE", records[1][1])
	suite.Equal("lunch, late", records[1][3])
	suite.Equal("12.50", records[1][4])
}

func (suite *HandlersTestSuite) TestExport_XLSX() {
	token := suite.signup("alice")
	suite.do(http.MethodPost, "/api/data/transaction", map[string]any{
		"amount": 300, "category": "salary", "type": "INCOME",
	}, bearer(token))

	w := suite.do(http.MethodGet, "/api/data/export?format=xlsx", nil, bearer(token))
	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal(xlsxType, w.Header().Get("Content-Type"))

	f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	suite.Require().NoError(err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal("Date", rows[0][0])
	suite.Equal("INCOME", rows[1][1])
	suite.Equal("salary", rows[1][2])
}

func (suite *HandlersTestSuite) TestExport_OnlyOwnRows() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")
	suite.do(http.MethodPost, "/api/data/transaction", map[string]any{
		"amount": 1, "category": "x", "type": "INCOME",
	}, bearer(alice))

	w := suite.do(http.MethodGet, "/api/data/export", nil, bearer(bob))
	suite.Require().Equal(http.StatusOK, w.Code)
	records, err := csv.NewReader(w.Body).ReadAll()
	suite.Require().NoError(err)
	suite.Len(records, 1, "header only")
}

func (suite *HandlersTestSuite) TestExport_UnknownFormat() {
	token := suite.signup("alice")

	w := suite.do(http.MethodGet, "/api/data/export?format=pdf", nil, bearer(token))
	suite.Equal(http.StatusBadRequest, w.Code)
}
