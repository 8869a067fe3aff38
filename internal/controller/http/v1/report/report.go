package report

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/pkg/errors"

	"labour/backend/foundation/web"
	"labour/backend/internal/service"
	"labour/backend/internal/service/reporting"
)

type Controller struct {
	reports Reports
}

func NewController(reports Reports) *Controller {
	return &Controller{reports}
}

type exporter struct {
	contentType string
	write       func(w io.Writer, r reporting.Report) error
}

var exporters = map[string]exporter{
	"xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", service.WriteReportExcel},
	"pdf":  {"application/pdf", service.WriteReportPDF},
	"csv":  {"text/csv", service.WriteReportCSV},
}

func (rc Controller) period(c *web.Context) (reporting.Period, error) {
	siteID, _ := c.GetQueryFunc(reflect.Int, "site_id").(*int)
	if err := c.ValidQuery(); err != nil {
		return reporting.Period{}, err
	}

	return rc.reports.ParsePeriod(c.Query("date_from"), c.Query("date_to"), siteID), nil
}

func (rc Controller) GetReport(c *web.Context) error {
	p, err := rc.period(c)
	if err != nil {
		return c.RespondError(err)
	}

	report, err := rc.reports.Build(c.Ctx, p)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   report,
		"status": true,
	}, http.StatusOK)
}

func (rc Controller) GetChartData(c *web.Context) error {
	p, err := rc.period(c)
	if err != nil {
		return c.RespondError(err)
	}

	points, err := rc.reports.ChartData(c.Ctx, p)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   points,
		"status": true,
	}, http.StatusOK)
}

// Export writes the report as xlsx, pdf or csv depending on :format.
func (rc Controller) Export(c *web.Context) error {
	format := c.GetParam(reflect.String, "format").(string)
	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	exp, ok := exporters[format]
	if !ok {
		return c.RespondError(web.NewRequestError(errors.Errorf("unsupported export format %q", format), http.StatusBadRequest))
	}

	p, err := rc.period(c)
	if err != nil {
		return c.RespondError(err)
	}

	report, err := rc.reports.Build(c.Ctx, p)
	if err != nil {
		return c.RespondError(err)
	}

	var buf bytes.Buffer
	if err := exp.write(&buf, report); err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "exporting report"), http.StatusInternalServerError))
	}

	filename := fmt.Sprintf("labour_report_%s_%s.%s", report.Period.From, report.Period.To, format)
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Data(http.StatusOK, exp.contentType, buf.Bytes())
	return nil
}
