package handler

import (
	"github.com/gin-gonic/gin"

	"jpashop/src/app/http/dto"
	"jpashop/src/app/http/response"
	"jpashop/src/app/middleware"
	"jpashop/src/core/domain"
	"jpashop/src/core/usecase"
)

// MemberHandler handles member endpoints.
type MemberHandler struct {
	memberService *usecase.MemberService
}

func NewMemberHandler(memberService *usecase.MemberService) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

// Join registers a member.
// POST /v1/members
func (h *MemberHandler) Join(c *gin.Context) {
	var req dto.JoinMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	member, err := h.memberService.Join(c.Request.Context(), req.Name, req.Address.ToDomain())
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.Created(c, dto.MemberResponse{}.FromDomain(member))
}

// List returns every member, or those with an exact name when ?name= is set.
// GET /v1/members
func (h *MemberHandler) List(c *gin.Context) {
	var (
		members []domain.Member
		err     error
	)
	if name, ok := c.GetQuery("name"); ok {
		members, err = h.memberService.FindByName(c.Request.Context(), name)
	} else {
		members, err = h.memberService.List(c.Request.Context())
	}
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.MembersFromDomain(members))
}

// Get returns one member.
// GET /v1/members/:member_id
func (h *MemberHandler) Get(c *gin.Context) {
	memberID, ok := parseID(c, "member_id")
	if !ok {
		return
	}
	member, err := h.memberService.Get(c.Request.Context(), memberID)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.MemberResponse{}.FromDomain(member))
}

// Update renames a member.
// PATCH /v1/members/:member_id
func (h *MemberHandler) Update(c *gin.Context) {
	memberID, ok := parseID(c, "member_id")
	if !ok {
		return
	}
	var req dto.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid payload", middleware.GetRequestID(c))
		return
	}

	member, err := h.memberService.UpdateName(c.Request.Context(), memberID, req.Name)
	if err != nil {
		response.FromDomainError(c, err, middleware.GetRequestID(c))
		return
	}
	response.OK(c, dto.MemberResponse{}.FromDomain(member))
}
