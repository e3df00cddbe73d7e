package experimentv1

func (x *GetExperimentRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *StartExperimentRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *PauseExperimentRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *ResumeExperimentRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *CompleteExperimentRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *DeleteExperimentRequest) GetID() string {
	if x != nil {
		return x.ID
	}
	return ""
}

func (x *AssignVariantRequest) GetExperimentID() string {
	if x != nil {
		return x.ExperimentID
	}
	return ""
}

func (x *AssignVariantRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

func (x *GetUserVariantRequest) GetExperimentID() string {
	if x != nil {
		return x.ExperimentID
	}
	return ""
}

func (x *GetUserVariantRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

func (x *TrackEventRequest) GetExperimentID() string {
	if x != nil {
		return x.ExperimentID
	}
	return ""
}

func (x *TrackEventRequest) GetUserID() string {
	if x != nil {
		return x.UserID
	}
	return ""
}

func (x *GetResultsRequest) GetExperimentID() string {
	if x != nil {
		return x.ExperimentID
	}
	return ""
}
