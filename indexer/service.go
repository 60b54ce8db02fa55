package indexer

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Service struct {
	engine     *gin.Engine
	indexer    *ChainIndexer
	listenAddr string
}

func NewService(listenAddr string, indexer *ChainIndexer) *Service {
	r := gin.Default()
	s := &Service{
		engine:     r,
		indexer:    indexer,
		listenAddr: listenAddr,
	}
	s.engine.POST("/getProjects", s.handleGetProjects)
	s.engine.POST("/getVotes", s.handleGetVotes)
	s.engine.POST("/getReleases", s.handleGetReleases)
	s.engine.POST("/getPauses", s.handleGetPauses)
	s.engine.POST("/getMembers", s.handleGetMembers)
	return s
}

func (s *Service) Start() {
	s.engine.Run(s.listenAddr)
}

type GetProjectsReq struct {
	ProjectId string `json:"projectId"`
	Page      int    `json:"page"`
	PageSize  int    `json:"pageSize"`
}

type ProjectInfo struct {
	Project  Project   `json:"project"`
	Releases []Release `json:"releases"`
}

type GetProjectsResponse struct {
	Projects []ProjectInfo `json:"projects"`
	Total    uint64        `json:"total"`
}

func (s *Service) handleGetProjects(c *gin.Context) {
	var response GetProjectsResponse
	response.Projects = make([]ProjectInfo, 0)
	var requestData GetProjectsReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if requestData.ProjectId != "" {
		project, err := s.indexer.getProjectById(requestData.ProjectId)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		releases, err := s.indexer.getReleasesByProject(project.Id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Projects = append(response.Projects, ProjectInfo{Project: project, Releases: releases})
		response.Total = 1
		c.JSON(http.StatusOK, response)
		return
	}

	projects, total, err := s.indexer.getProjects(requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Total = total
	for _, project := range projects {
		releases, err := s.indexer.getReleasesByProject(project.Id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		response.Projects = append(response.Projects, ProjectInfo{Project: project, Releases: releases})
	}
	c.JSON(http.StatusOK, response)
}

type GetVotesReq struct {
	Claim    string `json:"claim"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
}

type GetVotesResponse struct {
	Ballots []VoteBallot `json:"ballots"`
	Outcome *VoteOutcome `json:"outcome,omitempty"`
	Total   uint64       `json:"total"`
}

func (s *Service) handleGetVotes(c *gin.Context) {
	var requestData GetVotesReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.Claim == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "claim is required"})
		return
	}
	var response GetVotesResponse
	ballots, total, err := s.indexer.getBallotsByClaim(requestData.Claim, requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	response.Ballots = ballots
	response.Total = total
	outcome, err := s.indexer.getOutcomeByClaim(requestData.Claim)
	if err == nil {
		response.Outcome = outcome
	}
	c.JSON(http.StatusOK, response)
}

type GetReleasesReq struct {
	ProjectId string `json:"projectId"`
}

func (s *Service) handleGetReleases(c *gin.Context) {
	var requestData GetReleasesReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if requestData.ProjectId == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "projectId is required"})
		return
	}
	releases, err := s.indexer.getReleasesByProject(requestData.ProjectId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"releases": releases})
}

type GetPausesReq struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

func (s *Service) handleGetPauses(c *gin.Context) {
	var requestData GetPausesReq
	if err := c.ShouldBindJSON(&requestData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pauses, total, err := s.indexer.getPauses(requestData.Page, requestData.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"pauses": pauses, "total": total})
}

func (s *Service) handleGetMembers(c *gin.Context) {
	members, err := s.indexer.getMembers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}
