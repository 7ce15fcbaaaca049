package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/to404hanga/codeforces_submit_bot/constants"
	"github.com/to404hanga/codeforces_submit_bot/model"
	"github.com/to404hanga/codeforces_submit_bot/pkg/gintool"
	"github.com/to404hanga/codeforces_submit_bot/pkg/minio"
	"github.com/to404hanga/codeforces_submit_bot/service"
	"github.com/to404hanga/codeforces_submit_bot/service/exporter/factory"
	"go.uber.org/zap"
)

type SubmissionHandler struct {
	minioSvc                *minio.MinIOService
	submissionSvc           service.SubmissionService
	exporterFactory         *factory.SubmissionExporterFactory
	log                     *zap.Logger
	bucket                  string
	downloadDurationSeconds int
}

var _ Handler = (*SubmissionHandler)(nil)

func NewSubmissionHandler(minioSvc *minio.MinIOService, submissionSvc service.SubmissionService, exporterFactory *factory.SubmissionExporterFactory, log *zap.Logger, bucket string, downloadDurationSeconds int) *SubmissionHandler {
	return &SubmissionHandler{
		minioSvc:                minioSvc,
		submissionSvc:           submissionSvc,
		exporterFactory:         exporterFactory,
		log:                     log,
		bucket:                  bucket,
		downloadDurationSeconds: downloadDurationSeconds,
	}
}

func (h *SubmissionHandler) Register(r *gin.Engine) {
	r.POST(constants.SubmitCodePath, gintool.WrapHandler(h.SubmitCode, h.log))
	r.GET(constants.GetSubmissionListPath, gintool.WrapHandler(h.GetSubmissionList, h.log))
	r.GET(constants.GetSubmissionPath, gintool.WrapHandler(h.GetSubmission, h.log))
	r.GET(constants.GetSubmissionCodeURLPath, gintool.WrapHandler(h.GetSubmissionCodeURL, h.log))
	r.GET(constants.ExportSubmissionListPath, gintool.WrapHandler(h.ExportSubmissionList, h.log))
}

func (h *SubmissionHandler) SubmitCode(c *gin.Context, param *model.SubmitCodeParam) {
	ctx := c.Request.Context()
	start := time.Now()
	language := strconv.Itoa(param.LanguageID)

	// 代码正文落到对象存储, 数据库只存对象键
	codeURL := uuid.New().String()
	err := h.minioSvc.PutObject(ctx, h.bucket, codeURL, strings.NewReader(param.Code), int64(len(param.Code)), "text/plain")
	if err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
		h.log.Error("SubmitCode put object failed", zap.Error(err))
		submitCodeRequestsTotal.WithLabelValues("500", "put_object", language).Inc()
		submitCodeDurationSeconds.WithLabelValues("500", "put_object", language).Observe(time.Since(start).Seconds())
		return
	}

	submissionID, err := h.submissionSvc.CreateSubmission(ctx, param, codeURL)
	if err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
		h.log.Error("SubmitCode create submission failed", zap.Error(err))
		submitCodeRequestsTotal.WithLabelValues("500", "create_submission", language).Inc()
		submitCodeDurationSeconds.WithLabelValues("500", "create_submission", language).Observe(time.Since(start).Seconds())
		return
	}

	h.log.Info("submission accepted",
		zap.Uint64("submission_id", submissionID),
		zap.String("code_url", codeURL),
		zap.String("operator", param.Operator),
	)
	submitCodeRequestsTotal.WithLabelValues("200", "", language).Inc()
	submitCodeDurationSeconds.WithLabelValues("200", "", language).Observe(time.Since(start).Seconds())
	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data: model.SubmitCodeResponse{
			SubmissionID: submissionID,
		},
	})
}

func (h *SubmissionHandler) GetSubmissionList(c *gin.Context, param *model.GetSubmissionListParam) {
	ctx := c.Request.Context()

	resp, err := h.submissionSvc.GetSubmissionList(ctx, param)
	if err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
		h.log.Error("GetSubmissionList failed", zap.Error(err))
		return
	}

	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    resp,
	})
}

func (h *SubmissionHandler) GetSubmission(c *gin.Context, param *model.GetSubmissionParam) {
	ctx := c.Request.Context()

	submission, err := h.submissionSvc.GetSubmissionByID(ctx, param.SubmissionID)
	if err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
		h.log.Error("GetSubmission failed", zap.Error(err), zap.Uint64("submission_id", param.SubmissionID))
		return
	}

	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    submission,
	})
}

func (h *SubmissionHandler) GetSubmissionCodeURL(c *gin.Context, param *model.GetSubmissionCodeURLParam) {
	ctx := c.Request.Context()

	submission, err := h.submissionSvc.GetSubmissionByID(ctx, param.SubmissionID)
	if err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
		h.log.Error("GetSubmissionCodeURL failed", zap.Error(err), zap.Uint64("submission_id", param.SubmissionID))
		return
	}
	if submission.CodeURL == "" {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusNotFound,
			Message: "submission code has been cleaned",
		})
		return
	}

	presignedURL, err := h.minioSvc.GetPresignedDownloadURL(ctx, h.bucket, submission.CodeURL, h.downloadDurationSeconds)
	if err != nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
		h.log.Error("GetPresignedDownloadURL failed", zap.Error(err))
		return
	}

	gintool.GinResponse(c, &gintool.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data: model.GetSubmissionCodeURLResponse{
			PresignedURL: presignedURL,
		},
	})
}

func (h *SubmissionHandler) ExportSubmissionList(c *gin.Context, param *model.ExportSubmissionListParam) {
	ctx := c.Request.Context()

	exporterType := factory.ExporterType(param.Format)
	exp := h.exporterFactory.GetExporter(exporterType)
	if exp == nil {
		gintool.GinResponse(c, &gintool.Response{
			Code:    http.StatusBadRequest,
			Message: fmt.Sprintf("Unknown exporter type: %s", param.Format),
		})
		h.log.Error("Unknown exporter type", zap.String("format", param.Format))
		return
	}

	filename := "submissions" + factory.ExporterSuffixMap[exporterType]
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Type", "application/octet-stream")

	if err := exp.Export(ctx, param.AccountID, c.Writer); err != nil {
		h.log.Error("ExportSubmissionList failed", zap.Error(err))
		return
	}
}
